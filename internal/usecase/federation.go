package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
	"github.com/Bonattii/secrets-auth-project/internal/core/port"
)

// ErrFederationValidation indicates a missing provider or subject id.
var ErrFederationValidation = errors.New("provider and external id are required")

// FederationService links verified external identities to local user records.
// It never invokes a credential strategy: trust in the identity is delegated
// entirely to the provider's prior redirect and token verification.
type FederationService struct {
	users port.UserRepository
	log   *zap.Logger
}

// NewFederationService constructs a FederationService.
func NewFederationService(users port.UserRepository, log *zap.Logger) *FederationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FederationService{users: users, log: log}
}

// LinkOrCreate returns the record owning (provider, externalID), creating one
// with no local credential on first sight. Idempotent by (provider,
// externalID); the repository guarantees at-most-one creation under
// concurrent first-time logins.
func (s *FederationService) LinkOrCreate(ctx context.Context, provider, externalID, email string) (domain.User, error) {
	provider = strings.TrimSpace(provider)
	externalID = strings.TrimSpace(externalID)
	if provider == "" || externalID == "" {
		return domain.User{}, ErrFederationValidation
	}

	candidate := domain.User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(email),
		Provider:     provider,
		ExternalID:   externalID,
		RegisteredAt: time.Now().UTC(),
	}

	user, err := s.users.GetOrCreateByExternalID(ctx, provider, externalID, candidate)
	if err != nil {
		return domain.User{}, storeFault("link federated user", err)
	}

	if user.ID == candidate.ID {
		s.log.Info("federated user created",
			zap.String("user_id", user.ID),
			zap.String("provider", provider),
		)
	}

	return *user, nil
}
