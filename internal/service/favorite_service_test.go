package service

import (
	"context"
	"testing"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFavoriteService() (*MockFavoriteRepository, *MockListingRepository, FavoriteService) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	return favoriteRepo, listingRepo, NewFavoriteService(favoriteRepo, listingRepo, logger.NewNop())
}

func TestFavoriteService_Toggle_AddsWhenAbsent(t *testing.T) {
	favoriteRepo, listingRepo, svc := newFavoriteService()
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()
	favoriteRepo.On("GetByUserAndListing", mock.Anything, "seeker-1", "listing-1").
		Return(nil, repository.ErrNotFound).Once()
	favoriteRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *entity.Favorite) bool {
		return f.UserID == "seeker-1" && f.ListingID == "listing-1"
	})).Return("fav-1", nil).Once()

	isFavorited, err := svc.Toggle(context.Background(), identity, "listing-1")

	assert.NoError(t, err)
	assert.True(t, isFavorited)
	favoriteRepo.AssertExpectations(t)
}

func TestFavoriteService_Toggle_RemovesWhenPresent(t *testing.T) {
	favoriteRepo, listingRepo, svc := newFavoriteService()
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()
	favoriteRepo.On("GetByUserAndListing", mock.Anything, "seeker-1", "listing-1").
		Return(&entity.Favorite{ID: "fav-1", UserID: "seeker-1", ListingID: "listing-1"}, nil).Once()
	favoriteRepo.On("Delete", mock.Anything, "fav-1").Return(nil).Once()

	isFavorited, err := svc.Toggle(context.Background(), identity, "listing-1")

	assert.NoError(t, err)
	assert.False(t, isFavorited)
	favoriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFavoriteService_Toggle_Anonymous(t *testing.T) {
	favoriteRepo, _, svc := newFavoriteService()

	_, err := svc.Toggle(context.Background(), entity.Identity{}, "listing-1")

	assert.ErrorIs(t, err, ErrUnauthorized)
	favoriteRepo.AssertNotCalled(t, "GetByUserAndListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_Toggle_UnknownListing(t *testing.T) {
	favoriteRepo, listingRepo, svc := newFavoriteService()
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	listingRepo.On("GetByID", mock.Anything, "ghost").
		Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Toggle(context.Background(), identity, "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
	favoriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFavoriteService_Toggle_ConcurrentInsertStaysFavorited(t *testing.T) {
	favoriteRepo, listingRepo, svc := newFavoriteService()
	identity := entity.Identity{UserID: "seeker-1", Role: entity.RoleSeeker}

	listingRepo.On("GetByID", mock.Anything, "listing-1").
		Return(&entity.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()
	favoriteRepo.On("GetByUserAndListing", mock.Anything, "seeker-1", "listing-1").
		Return(nil, repository.ErrNotFound).Once()
	// Another request inserted the same favorite between the lookup and
	// the insert; the unique index rejects the duplicate.
	favoriteRepo.On("Create", mock.Anything, mock.Anything).
		Return("", repository.ErrAlreadyExists).Once()

	isFavorited, err := svc.Toggle(context.Background(), identity, "listing-1")

	assert.NoError(t, err)
	assert.True(t, isFavorited)
}
