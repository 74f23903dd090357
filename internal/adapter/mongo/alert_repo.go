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

const alertCollectionName = "alerts"

type alertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.AlertRepository {
	collection := client.Database(cfg.Database).Collection(alertCollectionName)
	return &alertRepository{collection: collection}
}

func (r *alertRepository) Create(ctx context.Context, alert *entity.Alert) (string, error) {
	res, err := r.collection.InsertOne(ctx, alert)
	if err != nil {
		return "", fmt.Errorf("failed to create alert: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *alertRepository) GetByID(ctx context.Context, alertID string) (*entity.Alert, error) {
	objID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, fmt.Errorf("invalid alert ID format: %w", repository.ErrNotFound)
	}

	var alert entity.Alert
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&alert)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert by ID %s: %w", alertID, err)
	}
	return &alert, nil
}

func (r *alertRepository) ListByUser(ctx context.Context, userID string) ([]entity.Alert, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var alerts []entity.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts for user %s: %w", userID, err)
	}
	return alerts, nil
}

func (r *alertRepository) Delete(ctx context.Context, alertID string) error {
	objID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return fmt.Errorf("invalid alert ID format: %w", repository.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete alert %s: %w", alertID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
