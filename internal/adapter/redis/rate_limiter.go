package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "rate_limit:"

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter is a fixed-window counter backed by redis. Keys expire with
// the window, so the limiter stays bounded and works across instances.
type RateLimiter interface {
	Check(ctx context.Context, identifier string) (RateLimitResult, error)
}

type rateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxRequests int
}

func NewRateLimiter(client *redis.Client, window time.Duration, maxRequests int) RateLimiter {
	return &rateLimiter{
		client:      client,
		window:      window,
		maxRequests: maxRequests,
	}
}

func (r *rateLimiter) Check(ctx context.Context, identifier string) (RateLimitResult, error) {
	key := rateLimitKeyPrefix + identifier

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to increment rate limit counter for %s: %w", identifier, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return RateLimitResult{}, fmt.Errorf("failed to set rate limit window for %s: %w", identifier, err)
		}
	}

	resetIn, err := r.client.TTL(ctx, key).Result()
	if err != nil || resetIn < 0 {
		resetIn = r.window
	}

	remaining := r.maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   count <= int64(r.maxRequests),
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
