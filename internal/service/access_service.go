package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

// ContactAccess is the evaluator's verdict for one viewer and one listing.
// OwnerPhone is populated only when IsUnlocked is true; a locked verdict
// never carries any part of the number. The price fields give a locked
// viewer the two paywall options.
type ContactAccess struct {
	IsUnlocked  bool   `json:"is_unlocked"`
	OwnerPhone  string `json:"phone,omitempty"`
	UnlockPrice int64  `json:"unlock_price,omitempty"`
	PassPrice   int64  `json:"pass_price,omitempty"`
}

type AccessService interface {
	// EvaluateContact decides whether the viewer may see the listing
	// owner's phone number. viewerID is empty for anonymous viewers, who
	// are always locked.
	EvaluateContact(ctx context.Context, listingID, viewerID string) (*ContactAccess, error)
}

type accessService struct {
	listingRepo     repository.ListingRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	pricing         PricingService
	log             logger.Logger
}

func NewAccessService(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	pricing PricingService,
	log logger.Logger,
) AccessService {
	return &accessService{
		listingRepo:     listingRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		pricing:         pricing,
		log:             log,
	}
}

func (s *accessService) EvaluateContact(ctx context.Context, listingID, viewerID string) (*ContactAccess, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", listingID, err)
	}

	pricing := s.pricing.Get(ctx)
	locked := &ContactAccess{
		IsUnlocked:  false,
		UnlockPrice: entity.UnlockPrice,
		PassPrice:   pricing.PassPrice,
	}

	// Anonymous viewers are always locked, even under free contact mode:
	// the override waives payment, not identity.
	if viewerID == "" {
		return locked, nil
	}

	if pricing.FreeContactEnabled() {
		return s.unlocked(ctx, listing)
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return locked, nil
		}
		return nil, fmt.Errorf("failed to load viewer %s: %w", viewerID, err)
	}

	if viewer.HasValidPass(time.Now().UTC()) {
		return s.unlocked(ctx, listing)
	}

	hasUnlock, err := s.transactionRepo.HasSuccessfulForListing(ctx, viewerID, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check single unlock for viewer %s: %w", viewerID, err)
	}
	if hasUnlock {
		return s.unlocked(ctx, listing)
	}

	return locked, nil
}

func (s *accessService) unlocked(ctx context.Context, listing *entity.Listing) (*ContactAccess, error) {
	owner, err := s.userRepo.GetByID(ctx, listing.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing owner %s: %w", listing.OwnerID, err)
	}
	return &ContactAccess{
		IsUnlocked: true,
		OwnerPhone: owner.Phone,
	}, nil
}
