package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bonattii/secrets-auth-project/internal/core/domain"
	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/repository"
)

const usersCollection = "users"

// UserRepository implements port.UserRepository on a MongoDB collection.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository wires a Mongo-backed user repository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the uniqueness constraints the store relies on:
// one registration per email, and at most one record per federated subject.
// Both indexes are partial; federated records created without an email stay
// out of the email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	hasEmail := bson.M{"email": bson.M{"$gt": ""}}
	partial := bson.M{"external_id": bson.M{"$exists": true}}

	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(hasEmail),
		},
		{
			Keys: bson.D{
				{Key: "provider", Value: 1},
				{Key: "external_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(partial),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	return nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email identifier.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &user, nil
}

// GetOrCreateByExternalID returns the record owning (provider, externalID),
// inserting candidate when none exists. The $setOnInsert upsert against the
// unique partial index makes concurrent first-time logins race to a single
// created document. When candidate's email is already registered, the new
// record is inserted without it; the existing registration keeps the email.
func (r *UserRepository) GetOrCreateByExternalID(ctx context.Context, provider, externalID string, candidate domain.User) (*domain.User, error) {
	filter := bson.M{"provider": provider, "external_id": externalID}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user domain.User
	err := r.users.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": candidate}, opts).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("upsert federated user: %w", err)
	}

	// Two indexes can trip here. Losing the upsert race on the subject means
	// the winner's document is now there; a hit on the email index means the
	// email belongs to an existing registration and the federated record must
	// not claim it.
	existing, lookupErr := r.getByExternalID(ctx, provider, externalID)
	if lookupErr == nil {
		return existing, nil
	}
	if !errors.Is(lookupErr, repository.ErrNotFound) {
		return nil, lookupErr
	}

	candidate.Email = ""
	if err := r.users.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": candidate}, opts).Decode(&user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.getByExternalID(ctx, provider, externalID)
		}
		return nil, fmt.Errorf("upsert federated user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) getByExternalID(ctx context.Context, provider, externalID string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"provider": provider, "external_id": externalID}
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user by external id: %w", err)
	}

	return &user, nil
}

// UpdateSecret overwrites the shared secret on the owning record.
func (r *UserRepository) UpdateSecret(ctx context.Context, id string, secret string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"secret": secret}})
	if err != nil {
		return fmt.Errorf("update secret: %w", err)
	}

	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListWithSecrets returns every record that has submitted a secret. The read
// path deliberately exposes all users' secrets to any authenticated viewer.
func (r *UserRepository) ListWithSecrets(ctx context.Context) ([]domain.User, error) {
	filter := bson.M{"secret": bson.M{"$exists": true, "$ne": ""}}

	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query secrets: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode secrets: %w", err)
	}

	return users, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
