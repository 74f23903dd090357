package mongo

import (
	"context"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

const pageViewCollectionName = "page_views"

type pageViewRepository struct {
	collection *mongo.Collection
}

func NewPageViewRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.PageViewRepository {
	collection := client.Database(cfg.Database).Collection(pageViewCollectionName)
	return &pageViewRepository{collection: collection}
}

func (r *pageViewRepository) Record(ctx context.Context, view *entity.PageView) error {
	if _, err := r.collection.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("failed to record page view: %w", err)
	}
	return nil
}
