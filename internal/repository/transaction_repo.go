package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type ListTransactionsParams struct {
	UserID   string
	Status   string
	Page     int
	PageSize int
}

type ListTransactionsResult struct {
	Transactions []entity.Transaction
	TotalCount   int64
}

// TransactionRepository is the payment ledger. Rows are created by payment
// initiation and mutated only through the conditional status transitions
// below, which succeed for exactly one caller per reference.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) (string, error)
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	// MarkStatusIfPending transitions the transaction with the given
	// reference to the target status only if it is still PENDING. Returns
	// ErrStaleState when the row exists but is no longer PENDING, and
	// ErrNotFound when no row carries the reference.
	MarkStatusIfPending(ctx context.Context, reference string, status entity.TransactionStatus) error
	// HasSuccessfulForListing reports whether a SUCCESS transaction exists
	// for the given user and listing. Used as the single-unlock grant check.
	HasSuccessfulForListing(ctx context.Context, userID, listingID string) (bool, error)
	List(ctx context.Context, params ListTransactionsParams) (*ListTransactionsResult, error)
}
