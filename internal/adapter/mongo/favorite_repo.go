package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const favoriteCollectionName = "favorites"

type favoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.FavoriteRepository {
	collection := client.Database(cfg.Database).Collection(favoriteCollectionName)
	return &favoriteRepository{collection: collection}
}

// EnsureFavoriteIndexes creates the unique (user, listing) index so a toggle
// racing against itself cannot insert the same favorite twice.
func EnsureFavoriteIndexes(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig) error {
	collection := client.Database(cfg.Database).Collection(favoriteCollectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create favorite indexes: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) (string, error) {
	res, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create favorite: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *favoriteRepository) GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.Favorite, error) {
	var favorite entity.Favorite
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "listing_id": listingID}).Decode(&favorite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get favorite for user %s listing %s: %w", userID, listingID, err)
	}
	return &favorite, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, favoriteID string) error {
	objID, err := primitive.ObjectIDFromHex(favoriteID)
	if err != nil {
		return fmt.Errorf("invalid favorite ID format: %w", repository.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", favoriteID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
