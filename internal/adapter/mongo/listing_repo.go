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

const listingCollectionName = "listings"

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	collection := client.Database(cfg.Database).Collection(listingCollectionName)
	return &listingRepository{collection: collection}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	res, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *listingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	var listing entity.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", listingID, err)
	}
	return &listing, nil
}

func (r *listingRepository) Update(ctx context.Context, params repository.UpdateListingParams) error {
	objID, err := primitive.ObjectIDFromHex(params.ListingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	setFields := bson.M{"updated_at": time.Now().UTC()}
	if params.Title != "" {
		setFields["title"] = params.Title
	}
	if params.Description != "" {
		setFields["description"] = params.Description
	}
	if params.Price > 0 {
		setFields["price"] = params.Price
	}
	if params.City != "" {
		setFields["city"] = params.City
	}
	if params.Neighborhood != "" {
		setFields["neighborhood"] = params.Neighborhood
	}
	if params.AdvanceMonths > 0 {
		setFields["advance_months"] = params.AdvanceMonths
	}
	if params.Images != nil {
		setFields["images"] = params.Images
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": setFields})
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", params.ListingID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, listingID string, status entity.ListingStatus) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing status for %s: %w", listingID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) MarkPaid(ctx context.Context, listingID string) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	filter := bson.M{
		"_id":    objID,
		"status": bson.M{"$ne": entity.ListingStatusPaid},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     entity.ListingStatusPaid,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark listing %s paid: %w", listingID, err)
	}

	if result.MatchedCount == 0 {
		var existing entity.Listing
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Status == entity.ListingStatusPaid {
			return repository.ErrStaleState
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, listingID string) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) Search(ctx context.Context, params repository.SearchListingsParams) (*repository.SearchListingsResult, error) {
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.City != "" {
		filter["city"] = params.City
	}
	priceFilter := bson.M{}
	if params.MinPrice > 0 {
		priceFilter["$gte"] = params.MinPrice
	}
	if params.MaxPrice > 0 {
		priceFilter["$lte"] = params.MaxPrice
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.PageSize > 0 {
		if params.Page <= 0 {
			params.Page = 1
		}
		findOptions.SetSkip(int64((params.Page - 1) * params.PageSize))
		findOptions.SetLimit(int64(params.PageSize))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []entity.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode searched listings: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	return &repository.SearchListingsResult{
		Listings:   listings,
		TotalCount: totalCount,
	}, nil
}
