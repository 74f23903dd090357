package entity

import (
	"errors"
	"time"
)

// Favorite bookmarks a listing for a user. A user has at most one favorite
// per listing, enforced by a unique index.
type Favorite struct {
	ID        string    `bson:"_id,omitempty"`
	UserID    string    `bson:"user_id"`
	ListingID string    `bson:"listing_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewFavorite(userID, listingID string) (*Favorite, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if listingID == "" {
		return nil, errors.New("listing ID cannot be empty")
	}
	return &Favorite{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
