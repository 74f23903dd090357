package handlers

import (
	"time"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

// Response shapes for API payloads. Entities carry bson tags for storage;
// the wire representation is owned here so storage layout changes do not
// leak into the API.

type userResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Role          string     `json:"role"`
	TrustScore    int        `json:"trust_score"`
	IsBanned      bool       `json:"is_banned"`
	HasActivePass bool       `json:"has_active_pass"`
	PassExpiry    *time.Time `json:"pass_expiry,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		TrustScore:    u.TrustScore,
		IsBanned:      u.IsBanned,
		HasActivePass: u.HasActivePass,
		PassExpiry:    u.PassExpiry,
		CreatedAt:     u.CreatedAt,
	}
}

type listingResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	AdvanceMonths int       `json:"advance_months,omitempty"`
	Neighborhood  string    `json:"neighborhood"`
	City          string    `json:"city"`
	Status        string    `json:"status"`
	Images        []string  `json:"images"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toListingResponse(l *entity.Listing) listingResponse {
	return listingResponse{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		Title:         l.Title,
		Description:   l.Description,
		Price:         l.Price,
		AdvanceMonths: l.AdvanceMonths,
		Neighborhood:  l.Neighborhood,
		City:          l.City,
		Status:        string(l.Status),
		Images:        l.Images,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toListingResponses(listings []entity.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}

type transactionResponse struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTransactionResponse(t *entity.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		Reference: t.Reference,
		Amount:    t.Amount,
		Provider:  t.Provider,
		Status:    string(t.Status),
		UserID:    t.UserID,
		ListingID: t.ListingID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTransactionResponses(txns []entity.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionResponse(&txns[i]))
	}
	return out
}
