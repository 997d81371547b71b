package memory

import (
	"context"
	"sync"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/repository"
)

// UserRepository is a mutex-guarded in-memory implementation of
// port.UserRepository, used by tests and local runs without a database.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byEmail    map[string]string
	byExternal map[string]string
}

// NewUserRepository builds an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]domain.User),
		byEmail:    make(map[string]string),
		byExternal: make(map[string]string),
	}
}

func externalKey(provider, externalID string) string {
	return provider + "\x00" + externalID
}

// Create inserts a new user, enforcing email uniqueness.
func (r *UserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != "" {
		if _, exists := r.byEmail[user.Email]; exists {
			return repository.ErrDuplicate
		}
	}
	if user.ExternalID != "" {
		if _, exists := r.byExternal[externalKey(user.Provider, user.ExternalID)]; exists {
			return repository.ErrDuplicate
		}
	}

	r.byID[user.ID] = user
	if user.Email != "" {
		r.byEmail[user.Email] = user.ID
	}
	if user.ExternalID != "" {
		r.byExternal[externalKey(user.Provider, user.ExternalID)] = user.ID
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	copy := user
	return &copy, nil
}

// GetByEmail retrieves a user by email identifier.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}

	user := r.byID[id]
	copy := user
	return &copy, nil
}

// GetOrCreateByExternalID holds the lock across the whole get-or-create, so
// concurrent first-time logins for the same subject resolve to one record.
func (r *UserRepository) GetOrCreateByExternalID(_ context.Context, provider, externalID string, candidate domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalKey(provider, externalID)
	if id, ok := r.byExternal[key]; ok {
		user := r.byID[id]
		copy := user
		return &copy, nil
	}

	if candidate.Email != "" {
		if _, taken := r.byEmail[candidate.Email]; taken {
			// The email already belongs to a registered record. The federated
			// record is created without it; the external identity stays its
			// only lookup key.
			candidate.Email = ""
		} else {
			r.byEmail[candidate.Email] = candidate.ID
		}
	}

	r.byID[candidate.ID] = candidate
	r.byExternal[key] = candidate.ID

	copy := candidate
	return &copy, nil
}

// UpdateSecret overwrites the shared secret on the owning record.
func (r *UserRepository) UpdateSecret(_ context.Context, id string, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}

	user.Secret = secret
	r.byID[id] = user

	return nil
}

// ListWithSecrets returns every record with a non-empty secret.
func (r *UserRepository) ListWithSecrets(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0)
	for _, user := range r.byID {
		if user.Secret != "" {
			users = append(users, user)
		}
	}

	return users, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
