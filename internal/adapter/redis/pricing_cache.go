package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/redis/go-redis/v9"
)

const pricingCacheKey = "platform_pricing"

// PricingCache caches the resolved platform pricing so the payment and
// access hot paths do not hit the settings collection on every request.
type PricingCache interface {
	Get(ctx context.Context) (*entity.Pricing, error)
	Set(ctx context.Context, pricing entity.Pricing, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type pricingCache struct {
	client *redis.Client
}

func NewPricingCache(client *redis.Client) PricingCache {
	return &pricingCache{client: client}
}

func (c *pricingCache) Get(ctx context.Context) (*entity.Pricing, error) {
	val, err := c.client.Get(ctx, pricingCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pricing from redis: %w", err)
	}

	var pricing entity.Pricing
	if err := json.Unmarshal(val, &pricing); err != nil {
		_ = c.Invalidate(ctx)
		return nil, fmt.Errorf("failed to unmarshal cached pricing: %w", err)
	}
	return &pricing, nil
}

func (c *pricingCache) Set(ctx context.Context, pricing entity.Pricing, ttl time.Duration) error {
	data, err := json.Marshal(pricing)
	if err != nil {
		return fmt.Errorf("failed to marshal pricing: %w", err)
	}

	if err := c.client.Set(ctx, pricingCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pricing to redis: %w", err)
	}
	return nil
}

func (c *pricingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, pricingCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate pricing cache: %w", err)
	}
	return nil
}
