package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// IsTerminal reports whether a transaction in this status may never change
// again. Ledger rows only ever move PENDING -> SUCCESS or PENDING -> FAILED.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}

type PaymentReason string

const (
	ReasonListingFee   PaymentReason = "LISTING_FEE"
	ReasonPass         PaymentReason = "PASS"
	ReasonSingleUnlock PaymentReason = "SINGLE_UNLOCK"
)

func (r PaymentReason) Valid() bool {
	switch r {
	case ReasonListingFee, ReasonPass, ReasonSingleUnlock:
		return true
	default:
		return false
	}
}

// Transaction is a row in the payment ledger. The reference is the sole
// correlation key between our ledger, the gateway, and inbound webhook
// notifications, so it must be unique and unguessable.
type Transaction struct {
	ID        string            `bson:"_id,omitempty"`
	Reference string            `bson:"reference"`
	Amount    int64             `bson:"amount"`
	Provider  string            `bson:"provider"`
	Status    TransactionStatus `bson:"status"`
	UserID    string            `bson:"user_id"`
	ListingID string            `bson:"listing_id,omitempty"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func NewTransaction(userID, listingID, provider string, amount int64) (*Transaction, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if provider == "" {
		return nil, errors.New("provider cannot be empty")
	}
	now := time.Now().UTC()
	return &Transaction{
		Reference: NewPaymentReference(),
		Amount:    amount,
		Provider:  provider,
		Status:    TransactionStatusPending,
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewPaymentReference generates a unique payment reference. A UUID gives
// enough entropy that a collision in the ledger or at the gateway is not a
// practical concern.
func NewPaymentReference() string {
	return fmt.Sprintf("REF-%s", uuid.NewString())
}
