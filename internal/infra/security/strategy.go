package security

import (
	"fmt"

	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/infra/config"
)

// Strategy names accepted in configuration.
const (
	StrategyPlaintext = "plaintext"
	StrategyCipher    = "aes-gcm"
	StrategyDigest    = "sha256"
	StrategyBcrypt    = "bcrypt"
)

// NewStrategy selects the credential strategy configured for the store.
// The returned strategy is fixed for the process lifetime; records written
// under a different strategy will not verify against it.
func NewStrategy(cfg config.AuthSettings) (port.CredentialStrategy, error) {
	switch cfg.Strategy {
	case StrategyPlaintext:
		return PlaintextStrategy{}, nil
	case StrategyCipher:
		return NewCipherStrategy([]byte(cfg.CipherKey))
	case StrategyDigest:
		return DigestStrategy{}, nil
	case StrategyBcrypt:
		return NewBcryptStrategy(cfg.BcryptCost), nil
	default:
		return nil, fmt.Errorf("unknown credential strategy %q", cfg.Strategy)
	}
}
