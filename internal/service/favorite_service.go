package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

type FavoriteService interface {
	// Toggle bookmarks the listing for the user, or removes the bookmark if
	// one already exists. Returns whether the listing is favorited after
	// the call.
	Toggle(ctx context.Context, identity entity.Identity, listingID string) (bool, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	listingRepo  repository.ListingRepository
	log          logger.Logger
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, listingRepo repository.ListingRepository, log logger.Logger) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
		log:          log,
	}
}

func (s *favoriteService) Toggle(ctx context.Context, identity entity.Identity, listingID string) (bool, error) {
	if identity.UserID == "" {
		return false, ErrUnauthorized
	}
	if listingID == "" {
		return false, fmt.Errorf("%w: listing ID is required", ErrInvalidInput)
	}

	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to load listing %s: %w", listingID, err)
	}

	existing, err := s.favoriteRepo.GetByUserAndListing(ctx, identity.UserID, listingID)
	switch {
	case err == nil:
		if err := s.favoriteRepo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("failed to remove favorite %s: %w", existing.ID, err)
		}
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		favorite, err := entity.NewFavorite(identity.UserID, listingID)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, err := s.favoriteRepo.Create(ctx, favorite); err != nil {
			// A concurrent toggle won the insert; the listing is
			// favorited either way.
			if errors.Is(err, repository.ErrAlreadyExists) {
				return true, nil
			}
			return false, fmt.Errorf("failed to create favorite: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
}
