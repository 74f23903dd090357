package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

type CreateListingParams struct {
	Title         string
	Description   string
	Price         int64
	Neighborhood  string
	City          string
	AdvanceMonths int
	Images        []string
	Latitude      *float64
	Longitude     *float64
}

type UpdateListingParams struct {
	Title         string
	Description   string
	Price         int64
	City          string
	Neighborhood  string
	AdvanceMonths int
	Images        []string
}

type ListingService interface {
	Create(ctx context.Context, identity entity.Identity, params CreateListingParams) (*entity.Listing, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	Update(ctx context.Context, identity entity.Identity, listingID string, params UpdateListingParams) (*entity.Listing, error)
	UpdateStatus(ctx context.Context, identity entity.Identity, listingID string, status entity.ListingStatus) (*entity.Listing, error)
	Delete(ctx context.Context, identity entity.Identity, listingID string) error
	// Search returns publicly visible listings only; unpaid listings never
	// appear in public results.
	Search(ctx context.Context, params repository.SearchListingsParams) (*repository.SearchListingsResult, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	log         logger.Logger
}

func NewListingService(listingRepo repository.ListingRepository, userRepo repository.UserRepository, log logger.Logger) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

func (s *listingService) Create(ctx context.Context, identity entity.Identity, params CreateListingParams) (*entity.Listing, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user %s: %w", identity.UserID, err)
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	listing, err := entity.NewListing(identity.UserID, params.Title, params.Description, params.Price, params.Neighborhood, params.City)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	listing.AdvanceMonths = params.AdvanceMonths
	if params.Images != nil {
		listing.Images = params.Images
	}
	listing.Latitude = params.Latitude
	listing.Longitude = params.Longitude

	listingID, err := s.listingRepo.Create(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	listing.ID = listingID

	s.log.Infof("Listing %s created by user %s (status=%s)", listingID, identity.UserID, listing.Status)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", listingID, err)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, identity entity.Identity, listingID string, params UpdateListingParams) (*entity.Listing, error) {
	if _, err := s.authorizeOwner(ctx, identity, listingID); err != nil {
		return nil, err
	}

	err := s.listingRepo.Update(ctx, repository.UpdateListingParams{
		ListingID:     listingID,
		Title:         params.Title,
		Description:   params.Description,
		Price:         params.Price,
		City:          params.City,
		Neighborhood:  params.Neighborhood,
		AdvanceMonths: params.AdvanceMonths,
		Images:        params.Images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", listingID, err)
	}

	return s.GetByID(ctx, listingID)
}

func (s *listingService) UpdateStatus(ctx context.Context, identity entity.Identity, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	if _, err := s.authorizeOwner(ctx, identity, listingID); err != nil {
		return nil, err
	}

	// Owners manage visibility but never self-activate: PAID is reachable
	// only through a confirmed publication payment.
	if status == entity.ListingStatusPaid {
		return nil, ErrForbidden
	}
	if status != entity.ListingStatusPending && status != entity.ListingStatusExpired {
		return nil, fmt.Errorf("%w: unknown listing status %q", ErrInvalidInput, status)
	}

	if err := s.listingRepo.UpdateStatus(ctx, listingID, status); err != nil {
		return nil, fmt.Errorf("failed to update listing %s status: %w", listingID, err)
	}
	return s.GetByID(ctx, listingID)
}

func (s *listingService) Delete(ctx context.Context, identity entity.Identity, listingID string) error {
	if identity.UserID == "" {
		return ErrUnauthorized
	}

	// Admins may remove any listing; owners only their own.
	if !identity.IsAdmin() {
		if _, err := s.authorizeOwner(ctx, identity, listingID); err != nil {
			return err
		}
	}

	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}

	s.log.Infof("Listing %s deleted by user %s", listingID, identity.UserID)
	return nil
}

func (s *listingService) Search(ctx context.Context, params repository.SearchListingsParams) (*repository.SearchListingsResult, error) {
	params.Status = entity.ListingStatusPaid
	result, err := s.listingRepo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return result, nil
}

func (s *listingService) authorizeOwner(ctx context.Context, identity entity.Identity, listingID string) (*entity.Listing, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", listingID, err)
	}

	if listing.OwnerID != identity.UserID {
		s.log.Warnf("User %s attempted to modify listing %s owned by %s", identity.UserID, listingID, listing.OwnerID)
		return nil, ErrForbidden
	}
	return listing, nil
}
