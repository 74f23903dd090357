package service

import (
	"context"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/adapter/campay"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *entity.Transaction) (string, error) {
	args := m.Called(ctx, txn)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) MarkStatusIfPending(ctx context.Context, reference string, status entity.TransactionStatus) error {
	args := m.Called(ctx, reference, status)
	return args.Error(0)
}

func (m *MockTransactionRepository) HasSuccessfulForListing(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, params repository.ListTransactionsParams) (*repository.ListTransactionsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListTransactionsResult), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, params repository.UpdateListingParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, listingID string, status entity.ListingStatus) error {
	args := m.Called(ctx, listingID, status)
	return args.Error(0)
}

func (m *MockListingRepository) MarkPaid(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockListingRepository) Search(ctx context.Context, params repository.SearchListingsParams) (*repository.SearchListingsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SearchListingsResult), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GrantPass(ctx context.Context, userID string, expiry time.Time) error {
	args := m.Called(ctx, userID, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, userID string, banned bool) error {
	args := m.Called(ctx, userID, banned)
	return args.Error(0)
}

func (m *MockUserRepository) SetTrustScore(ctx context.Context, userID string, score int) error {
	args := m.Called(ctx, userID, score)
	return args.Error(0)
}

type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) GetAll(ctx context.Context) ([]entity.PlatformSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PlatformSetting), args.Error(1)
}

func (m *MockSettingRepository) Upsert(ctx context.Context, setting entity.PlatformSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

type MockPricingCache struct {
	mock.Mock
}

func (m *MockPricingCache) Get(ctx context.Context) (*entity.Pricing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Pricing), args.Error(1)
}

func (m *MockPricingCache) Set(ctx context.Context, pricing entity.Pricing, ttl time.Duration) error {
	args := m.Called(ctx, pricing, ttl)
	return args.Error(0)
}

func (m *MockPricingCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) RequestCollection(ctx context.Context, request campay.CollectionRequest) (*campay.CollectionResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campay.CollectionResponse), args.Error(1)
}

func (m *MockPaymentGateway) CheckTransactionStatus(ctx context.Context, reference string) (*campay.TransactionStatus, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campay.TransactionStatus), args.Error(1)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) (string, error) {
	args := m.Called(ctx, favorite)
	return args.String(0), args.Error(1)
}

func (m *MockFavoriteRepository) GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.Favorite, error) {
	args := m.Called(ctx, userID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, favoriteID string) error {
	args := m.Called(ctx, favoriteID)
	return args.Error(0)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *entity.Alert) (string, error) {
	args := m.Called(ctx, alert)
	return args.String(0), args.Error(1)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, alertID string) (*entity.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListByUser(ctx context.Context, userID string) ([]entity.Alert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Alert), args.Error(1)
}

func (m *MockAlertRepository) Delete(ctx context.Context, alertID string) error {
	args := m.Called(ctx, alertID)
	return args.Error(0)
}

type MockPageViewRepository struct {
	mock.Mock
}

func (m *MockPageViewRepository) Record(ctx context.Context, view *entity.PageView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}
