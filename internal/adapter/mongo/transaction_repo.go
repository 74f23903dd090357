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

const transactionCollectionName = "transactions"

type transactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.TransactionRepository {
	collection := client.Database(cfg.Database).Collection(transactionCollectionName)
	return &transactionRepository{collection: collection}
}

// EnsureTransactionIndexes creates the unique index on the payment reference.
// The reference is the idempotency key for the whole payment flow, so a
// duplicate insert must fail at the database.
func EnsureTransactionIndexes(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig) error {
	collection := client.Database(cfg.Database).Collection(transactionCollectionName)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) (string, error) {
	res, err := r.collection.InsertOne(ctx, txn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference %s: %w", reference, err)
	}
	return &txn, nil
}

func (r *transactionRepository) MarkStatusIfPending(ctx context.Context, reference string, status entity.TransactionStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("target status %s is not terminal: %w", status, repository.ErrUpdateFailed)
	}

	filter := bson.M{
		"reference": reference,
		"status":    entity.TransactionStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition transaction %s: %w", reference, err)
	}

	if result.MatchedCount == 0 {
		var existing entity.Transaction
		errFind := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Status != entity.TransactionStatusPending {
			return repository.ErrStaleState
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *transactionRepository) HasSuccessfulForListing(ctx context.Context, userID, listingID string) (bool, error) {
	filter := bson.M{
		"user_id":    userID,
		"listing_id": listingID,
		"status":     entity.TransactionStatusSuccess,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check unlock transaction for user %s listing %s: %w", userID, listingID, err)
	}
	return count > 0, nil
}

func (r *transactionRepository) List(ctx context.Context, params repository.ListTransactionsParams) (*repository.ListTransactionsResult, error) {
	filter := bson.M{}
	if params.UserID != "" {
		filter["user_id"] = params.UserID
	}
	if params.Status != "" {
		filter["status"] = params.Status
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
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []entity.Transaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode listed transactions: %w", err)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return &repository.ListTransactionsResult{
		Transactions: transactions,
		TotalCount:   totalCount,
	}, nil
}
