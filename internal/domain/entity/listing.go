package entity

import (
	"errors"
	"time"
)

type ListingStatus string

const (
	ListingStatusPending ListingStatus = "PENDING"
	ListingStatusPaid    ListingStatus = "PAID"
	ListingStatusExpired ListingStatus = "EXPIRED"
)

type Listing struct {
	ID            string        `bson:"_id,omitempty"`
	OwnerID       string        `bson:"owner_id"`
	Title         string        `bson:"title"`
	Description   string        `bson:"description"`
	Price         int64         `bson:"price"`
	AdvanceMonths int           `bson:"advance_months,omitempty"`
	Neighborhood  string        `bson:"neighborhood"`
	City          string        `bson:"city"`
	Status        ListingStatus `bson:"status"`
	Images        []string      `bson:"images"`
	Latitude      *float64      `bson:"latitude,omitempty"`
	Longitude     *float64      `bson:"longitude,omitempty"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}

func NewListing(ownerID, title, description string, price int64, neighborhood, city string) (*Listing, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID cannot be empty")
	}
	if title == "" {
		return nil, errors.New("title cannot be empty")
	}
	if description == "" {
		return nil, errors.New("description cannot be empty")
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if neighborhood == "" || city == "" {
		return nil, errors.New("neighborhood and city are required")
	}
	now := time.Now().UTC()
	return &Listing{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		Price:        price,
		Neighborhood: neighborhood,
		City:         city,
		Status:       ListingStatusPending,
		Images:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsPubliclyVisible reports whether the listing may appear in public search
// results. Only listings whose publication fee has been paid are shown.
func (l *Listing) IsPubliclyVisible() bool {
	return l.Status == ListingStatusPaid
}
