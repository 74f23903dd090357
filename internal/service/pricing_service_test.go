package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPricingService_Get_StoreDown_FallsBackToDefaults(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	cache := new(MockPricingCache)
	svc := NewPricingService(settingRepo, cache, 5*time.Minute, logger.NewNop())

	cache.On("Get", mock.Anything).Return(nil, repository.ErrNotFound).Once()
	settingRepo.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	pricing := svc.Get(context.Background())

	assert.Equal(t, entity.DefaultListingPrice, pricing.ListingPrice)
	assert.Equal(t, entity.DefaultPassPrice, pricing.PassPrice)
	assert.False(t, pricing.FreeContactEnabled())
}

func TestPricingService_Get_OverridesApplied(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	cache := new(MockPricingCache)
	svc := NewPricingService(settingRepo, cache, 5*time.Minute, logger.NewNop())

	cache.On("Get", mock.Anything).Return(nil, repository.ErrNotFound).Once()
	settingRepo.On("GetAll", mock.Anything).Return([]entity.PlatformSetting{
		{ID: entity.SettingListingPrice, Value: 10000},
		{ID: entity.SettingFreeContact, Value: 1},
	}, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, 5*time.Minute).Return(nil).Once()

	pricing := svc.Get(context.Background())

	assert.Equal(t, int64(10000), pricing.ListingPrice)
	assert.Equal(t, entity.DefaultPassPrice, pricing.PassPrice)
	assert.True(t, pricing.FreeContactEnabled())
	cache.AssertExpectations(t)
}

func TestPricingService_Get_CacheHitSkipsStore(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	cache := new(MockPricingCache)
	svc := NewPricingService(settingRepo, cache, 5*time.Minute, logger.NewNop())

	cached := entity.Pricing{ListingPrice: 8000, PassPrice: 2500}
	cache.On("Get", mock.Anything).Return(&cached, nil).Once()

	pricing := svc.Get(context.Background())

	assert.Equal(t, cached, pricing)
	settingRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestPricingService_Set_RequiresAdmin(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	svc := NewPricingService(settingRepo, nil, 5*time.Minute, logger.NewNop())

	price := int64(6000)
	_, err := svc.Set(context.Background(), entity.Identity{UserID: "u1", Role: entity.RoleOwner}, PricingUpdate{ListingPrice: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Set(context.Background(), entity.Identity{}, PricingUpdate{ListingPrice: &price})
	assert.ErrorIs(t, err, ErrUnauthorized)

	settingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPricingService_Set_UpsertsAndInvalidates(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	cache := new(MockPricingCache)
	svc := NewPricingService(settingRepo, cache, 5*time.Minute, logger.NewNop())
	admin := entity.Identity{UserID: "admin-1", Role: entity.RoleAdmin}

	price := int64(6000)
	settingRepo.On("Upsert", mock.Anything, entity.PlatformSetting{ID: entity.SettingListingPrice, Value: price}).Return(nil).Once()
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	cache.On("Get", mock.Anything).Return(nil, repository.ErrNotFound).Once()
	settingRepo.On("GetAll", mock.Anything).Return([]entity.PlatformSetting{
		{ID: entity.SettingListingPrice, Value: price},
	}, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, 5*time.Minute).Return(nil).Once()

	pricing, err := svc.Set(context.Background(), admin, PricingUpdate{ListingPrice: &price})

	assert.NoError(t, err)
	assert.Equal(t, price, pricing.ListingPrice)
	settingRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPricingService_Set_RejectsNegative(t *testing.T) {
	settingRepo := new(MockSettingRepository)
	svc := NewPricingService(settingRepo, nil, 5*time.Minute, logger.NewNop())
	admin := entity.Identity{UserID: "admin-1", Role: entity.RoleAdmin}

	negative := int64(-1)
	_, err := svc.Set(context.Background(), admin, PricingUpdate{PassPrice: &negative})

	assert.ErrorIs(t, err, ErrInvalidInput)
	settingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
