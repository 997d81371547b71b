package security

import "crypto/subtle"

// PlaintextStrategy persists the secret verbatim. It is the weakest tier of
// the demo: anyone with store access can read every credential.
type PlaintextStrategy struct{}

func (PlaintextStrategy) Name() string { return StrategyPlaintext }

// Store is the identity function.
func (PlaintextStrategy) Store(secret string) (string, error) {
	return secret, nil
}

// Compare checks direct byte equality.
func (PlaintextStrategy) Compare(secret, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(stored)) == 1, nil
}
