package domain

import "time"

// User mirrors the persisted representation in the users collection.
//
// Exactly one of the two auth paths is primary per record: locally registered
// users carry a CredentialHash, federated users carry Provider/ExternalID.
// Both may coexist once a federated user later sets a local password.
type User struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email,omitempty"`
	CredentialHash string    `bson:"credential_hash,omitempty"`
	CredentialAlgo string    `bson:"credential_algo,omitempty"`
	Provider       string    `bson:"provider,omitempty"`
	ExternalID     string    `bson:"external_id,omitempty"`
	Secret         string    `bson:"secret,omitempty"`
	RegisteredAt   time.Time `bson:"registered_at"`
}

// HasCredential reports whether the record can be verified locally.
func (u User) HasCredential() bool {
	return u.CredentialHash != ""
}

// IsFederated reports whether the record was created by an identity provider.
func (u User) IsFederated() bool {
	return u.Provider != "" && u.ExternalID != ""
}
