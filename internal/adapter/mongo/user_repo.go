package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.UserRepository {
	collection := client.Database(cfg.Database).Collection(userCollectionName)
	return &userRepository{collection: collection}
}

func EnsureUserIndexes(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig) error {
	collection := client.Database(cfg.Database).Collection(userCollectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	var user entity.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", userID, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GrantPass(ctx context.Context, userID string, expiry time.Time) error {
	return r.updateFields(ctx, userID, bson.M{
		"has_active_pass": true,
		"pass_expiry":     expiry.UTC(),
	})
}

func (r *userRepository) SetBanned(ctx context.Context, userID string, banned bool) error {
	return r.updateFields(ctx, userID, bson.M{"is_banned": banned})
}

func (r *userRepository) SetTrustScore(ctx context.Context, userID string, score int) error {
	return r.updateFields(ctx, userID, bson.M{"trust_score": score})
}

func (r *userRepository) updateFields(ctx context.Context, userID string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	fields["updated_at"] = time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
