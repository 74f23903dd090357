package mongo

import (
	"context"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingCollectionName = "platform_settings"

type settingRepository struct {
	collection *mongo.Collection
}

func NewSettingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.SettingRepository {
	collection := client.Database(cfg.Database).Collection(settingCollectionName)
	return &settingRepository{collection: collection}
}

func (r *settingRepository) GetAll(ctx context.Context) ([]entity.PlatformSetting, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []entity.PlatformSetting
	if err = cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode platform settings: %w", err)
	}
	return settings, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting entity.PlatformSetting) error {
	filter := bson.M{"_id": setting.ID}
	update := bson.M{"$set": bson.M{"value": setting.Value}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert platform setting %s: %w", setting.ID, err)
	}
	return nil
}
