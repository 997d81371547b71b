package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
	"github.com/Bonattii/secrets-auth-project/internal/repository"
)

// newTestRepository connects to the instance named by SECRETS_TEST_MONGO_URI
// and hands back a repository on a throwaway database. Skipped when the
// variable is unset.
func newTestRepository(t *testing.T) *UserRepository {
	t.Helper()

	uri := os.Getenv("SECRETS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SECRETS_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	db := client.Database(fmt.Sprintf("secrets_test_%s", uuid.NewString()[:8]))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	repo := NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	return repo
}

func testUser(id, email string) domain.User {
	return domain.User{
		ID:             id,
		Email:          email,
		CredentialHash: "stored",
		CredentialAlgo: "plaintext",
		RegisteredAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCreateAndLookups(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "alice@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Create(ctx, testUser("u2", "alice@example.com")); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Fatalf("expected u1, got %q", byEmail.ID)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertFederatedSubject(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	candidate := domain.User{ID: "u1", Provider: "google", ExternalID: "g-1", RegisteredAt: time.Now().UTC()}
	first, err := repo.GetOrCreateByExternalID(ctx, "google", "g-1", candidate)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	other := domain.User{ID: "u2", Provider: "google", ExternalID: "g-1", RegisteredAt: time.Now().UTC()}
	second, err := repo.GetOrCreateByExternalID(ctx, "google", "g-1", other)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.ID != "u1" || second.ID != "u1" {
		t.Fatalf("expected existing record to win, got %q then %q", first.ID, second.ID)
	}
}

func TestUpsertLeavesRegisteredEmailAlone(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "alice@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	candidate := domain.User{
		ID:           "u2",
		Email:        "alice@example.com",
		Provider:     "google",
		ExternalID:   "g-1",
		RegisteredAt: time.Now().UTC(),
	}
	linked, err := repo.GetOrCreateByExternalID(ctx, "google", "g-1", candidate)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	if linked.ID != "u2" {
		t.Fatalf("expected a distinct federated record, got %q", linked.ID)
	}
	if linked.Email != "" {
		t.Fatalf("federated record must not claim the registered email, got %q", linked.Email)
	}

	owner, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if owner.ID != "u1" {
		t.Fatalf("email must stay with the registration, got %q", owner.ID)
	}
}

func TestUpdateSecretAndListing(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("u1", "alice@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateSecret(ctx, "u1", "a secret"); err != nil {
		t.Fatalf("update secret: %v", err)
	}
	if err := repo.UpdateSecret(ctx, "missing", "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	listed, err := repo.ListWithSecrets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Secret != "a secret" {
		t.Fatalf("unexpected listing %v", listed)
	}
}
