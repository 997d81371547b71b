package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/repository"
)

var (
	// ErrValidation indicates a missing identifier or secret.
	ErrValidation = errors.New("identifier and secret are required")
	// ErrInvalidCredentials indicates the provided identifier or password are
	// incorrect. Lookup misses and compare failures both collapse into this
	// error so the login flow leaks no account-existence signal.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateIdentifier indicates the email is already registered.
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	// ErrStoreUnavailable indicates the persistence layer is unreachable.
	// Unlike ErrInvalidCredentials this is an infrastructure fault, not a
	// normal outcome, and callers message it differently.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// AuthService is the credential store: it applies the active strategy on
// registration and delegates verification to it on login.
type AuthService struct {
	users    port.UserRepository
	strategy port.CredentialStrategy
	log      *zap.Logger
}

// NewAuthService constructs an AuthService with the strategy selected at
// startup. The strategy never changes for the store's lifetime.
func NewAuthService(users port.UserRepository, strategy port.CredentialStrategy, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, strategy: strategy, log: log}
}

// StrategyName reports the tag of the active strategy.
func (s *AuthService) StrategyName() string {
	return s.strategy.Name()
}

// Register creates a user record with the submitted secret encoded by the
// active strategy.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrValidation
	}

	credential, err := s.strategy.Store(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("encode credential: %w", err)
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		CredentialHash: credential,
		CredentialAlgo: s.strategy.Name(),
		RegisteredAt:   time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrDuplicateIdentifier
		}
		return domain.User{}, storeFault("create user", err)
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("strategy", user.CredentialAlgo),
	)

	return user, nil
}

// Login looks up the record by identifier and delegates the byte comparison
// to the active strategy.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, ErrValidation
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, storeFault("lookup user", err)
	}

	if !user.HasCredential() {
		// Federated-only record: local login cannot verify it.
		return domain.User{}, ErrInvalidCredentials
	}

	if user.CredentialAlgo != s.strategy.Name() {
		// Record written under another strategy. Mixing strategies within one
		// store is a deployment error; refuse rather than guess.
		s.log.Warn("credential algorithm mismatch",
			zap.String("user_id", user.ID),
			zap.String("record_algo", user.CredentialAlgo),
			zap.String("active_algo", s.strategy.Name()),
		)
		return domain.User{}, ErrInvalidCredentials
	}

	ok, err := s.strategy.Compare(password, user.CredentialHash)
	if err != nil {
		return domain.User{}, fmt.Errorf("verify credential: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}

	return *user, nil
}

func storeFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
