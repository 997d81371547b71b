package port

// CredentialStrategy defines how a submitted secret is persisted and later
// verified. A single strategy is selected at startup and shared by every
// record in the store; implementations must be safe for concurrent use.
type CredentialStrategy interface {
	// Name tags records with the algorithm that produced their credential.
	Name() string
	// Store encodes the secret into its persisted credential form.
	Store(secret string) (string, error)
	// Compare reports whether secret matches the stored credential.
	// A mismatch is (false, nil); errors are reserved for malformed input
	// or infrastructure faults.
	Compare(secret, stored string) (bool, error)
}
