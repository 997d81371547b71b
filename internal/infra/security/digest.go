package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestStrategy persists an unsalted SHA-256 hex digest. Identical secrets
// always produce identical stored bytes across records, which is exactly the
// precomputed-table weakness this tier demonstrates.
type DigestStrategy struct{}

func (DigestStrategy) Name() string { return StrategyDigest }

// Store hashes the secret. Deterministic: no salt, no iteration count.
func (DigestStrategy) Store(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

// Compare recomputes the digest and compares it to the stored one.
func (DigestStrategy) Compare(secret, stored string) (bool, error) {
	sum := sha256.Sum256([]byte(secret))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
}
