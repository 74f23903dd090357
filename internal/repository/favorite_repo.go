package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type FavoriteRepository interface {
	// Create returns ErrAlreadyExists when the user already favorited the
	// listing; the (user, listing) pair is covered by a unique index.
	Create(ctx context.Context, favorite *entity.Favorite) (string, error)
	GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.Favorite, error)
	Delete(ctx context.Context, favoriteID string) error
}
