package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type UpdateListingParams struct {
	ListingID     string
	Title         string
	Description   string
	Price         int64
	City          string
	Neighborhood  string
	AdvanceMonths int
	Images        []string
}

type SearchListingsParams struct {
	City     string
	MinPrice int64
	MaxPrice int64
	Status   entity.ListingStatus
	Page     int
	PageSize int
}

type SearchListingsResult struct {
	Listings   []entity.Listing
	TotalCount int64
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	Update(ctx context.Context, params UpdateListingParams) error
	UpdateStatus(ctx context.Context, listingID string, status entity.ListingStatus) error
	// MarkPaid sets the listing status to PAID only if it is not already
	// PAID. Returns ErrStaleState when the listing was already PAID, which
	// callers treat as an idempotent no-op.
	MarkPaid(ctx context.Context, listingID string) error
	Delete(ctx context.Context, listingID string) error
	Search(ctx context.Context, params SearchListingsParams) (*SearchListingsResult, error)
}
