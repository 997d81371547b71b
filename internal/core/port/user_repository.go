package port

import (
	"context"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetOrCreateByExternalID returns the record owning (provider, externalID),
	// inserting candidate if none exists. Implementations must guarantee
	// at-most-one creation under concurrent first-time calls.
	GetOrCreateByExternalID(ctx context.Context, provider, externalID string, candidate domain.User) (*domain.User, error)
	UpdateSecret(ctx context.Context, id string, secret string) error
	ListWithSecrets(ctx context.Context) ([]domain.User, error)
}
