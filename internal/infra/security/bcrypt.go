package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the salt rounds the demo has always used.
// Raising it strictly increases the compute cost of Store and Compare and is
// the tunable defense knob of this tier.
const DefaultBcryptCost = 10

// BcryptStrategy persists a salted adaptive hash. The encoded output carries
// its own salt and cost, so two Store calls on the same secret yield
// different credentials that both verify.
type BcryptStrategy struct {
	cost int
}

// NewBcryptStrategy builds the strategy, falling back to DefaultBcryptCost
// for out-of-range values.
func NewBcryptStrategy(cost int) BcryptStrategy {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return BcryptStrategy{cost: cost}
}

func (BcryptStrategy) Name() string { return StrategyBcrypt }

// Store hashes the secret with a randomized salt at the configured cost.
func (s BcryptStrategy) Store(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// Compare uses bcrypt's constant-time verifier, which extracts salt and cost
// from the stored credential.
func (s BcryptStrategy) Compare(secret, stored string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare credential: %w", err)
}
