package entity

import (
	"errors"
	"time"
)

// Alert is a saved search. Every criterion is optional; an empty field means
// the alert does not filter on it.
type Alert struct {
	ID           string    `bson:"_id,omitempty"`
	UserID       string    `bson:"user_id"`
	City         string    `bson:"city,omitempty"`
	Neighborhood string    `bson:"neighborhood,omitempty"`
	MinPrice     *int64    `bson:"min_price,omitempty"`
	MaxPrice     *int64    `bson:"max_price,omitempty"`
	Bedrooms     *int      `bson:"bedrooms,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func NewAlert(userID, city, neighborhood string, minPrice, maxPrice *int64, bedrooms *int) (*Alert, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if minPrice != nil && *minPrice < 0 {
		return nil, errors.New("minimum price cannot be negative")
	}
	if maxPrice != nil && *maxPrice < 0 {
		return nil, errors.New("maximum price cannot be negative")
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return nil, errors.New("minimum price cannot exceed maximum price")
	}
	if bedrooms != nil && *bedrooms < 0 {
		return nil, errors.New("bedroom count cannot be negative")
	}
	return &Alert{
		UserID:       userID,
		City:         city,
		Neighborhood: neighborhood,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Bedrooms:     bedrooms,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
