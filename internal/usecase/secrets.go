package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/repository"
)

// ErrSecretRequired indicates an empty secret submission.
var ErrSecretRequired = errors.New("secret text is required")

// SecretService handles the shared secrets board. A session may overwrite its
// own record's secret only, but the listing exposes every record's secret to
// any authenticated viewer. That asymmetry is the demo's point, not a bug.
type SecretService struct {
	users port.UserRepository
}

// NewSecretService constructs a SecretService.
func NewSecretService(users port.UserRepository) *SecretService {
	return &SecretService{users: users}
}

// Submit stores the secret on the caller's own record.
func (s *SecretService) Submit(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrSecretRequired
	}

	if err := s.users.UpdateSecret(ctx, userID, text); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return storeFault("store secret", err)
	}

	return nil
}

// List returns every submitted secret.
func (s *SecretService) List(ctx context.Context) ([]string, error) {
	users, err := s.users.ListWithSecrets(ctx)
	if err != nil {
		return nil, storeFault("list secrets", err)
	}

	secrets := make([]string, 0, len(users))
	for _, user := range users {
		secrets = append(secrets, user.Secret)
	}

	return secrets, nil
}
