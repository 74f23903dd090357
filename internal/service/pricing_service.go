package service

import (
	"context"
	"fmt"
	"time"

	redisadapter "github.com/immodirect7-wq/immodirect/internal/adapter/redis"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

type PricingUpdate struct {
	ListingPrice *int64
	PassPrice    *int64
	FreeContact  *int64
}

type PricingService interface {
	// Get returns the current platform pricing. Store or cache failures
	// never propagate; defaults are returned instead so display and
	// evaluation paths keep working.
	Get(ctx context.Context) entity.Pricing
	// Set upserts the provided keys. Unlike Get, a store failure here is
	// surfaced: an admin write that did not land must not look applied.
	Set(ctx context.Context, identity entity.Identity, update PricingUpdate) (entity.Pricing, error)
}

type pricingService struct {
	settingRepo repository.SettingRepository
	cache       redisadapter.PricingCache
	cacheTTL    time.Duration
	log         logger.Logger
}

func NewPricingService(
	settingRepo repository.SettingRepository,
	cache redisadapter.PricingCache,
	cacheTTL time.Duration,
	log logger.Logger,
) PricingService {
	return &pricingService{
		settingRepo: settingRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

func (s *pricingService) Get(ctx context.Context) entity.Pricing {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil {
			return *cached
		}
	}

	pricing := entity.DefaultPricing()
	settings, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Warnf("Failed to load platform settings, falling back to defaults: %v", err)
		return pricing
	}

	for _, setting := range settings {
		switch setting.ID {
		case entity.SettingListingPrice:
			pricing.ListingPrice = setting.Value
		case entity.SettingPassPrice:
			pricing.PassPrice = setting.Value
		case entity.SettingFreeContact:
			pricing.FreeContact = setting.Value
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, pricing, s.cacheTTL); err != nil {
			s.log.Warnf("Failed to cache platform pricing: %v", err)
		}
	}
	return pricing
}

func (s *pricingService) Set(ctx context.Context, identity entity.Identity, update PricingUpdate) (entity.Pricing, error) {
	if identity.UserID == "" {
		return entity.Pricing{}, ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return entity.Pricing{}, ErrForbidden
	}

	upserts := map[string]*int64{
		entity.SettingListingPrice: update.ListingPrice,
		entity.SettingPassPrice:    update.PassPrice,
		entity.SettingFreeContact:  update.FreeContact,
	}
	for id, value := range upserts {
		if value == nil {
			continue
		}
		if *value < 0 {
			return entity.Pricing{}, fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, id)
		}
		if err := s.settingRepo.Upsert(ctx, entity.PlatformSetting{ID: id, Value: *value}); err != nil {
			return entity.Pricing{}, fmt.Errorf("failed to save platform setting %s: %w", id, err)
		}
		s.log.Infof("Platform setting %s updated to %d by admin %s", id, *value, identity.UserID)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warnf("Failed to invalidate pricing cache after update: %v", err)
		}
	}
	return s.Get(ctx), nil
}
