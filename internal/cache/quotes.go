// Package cache holds the quote cache: price breakdowns keyed by
// (accommodation, check-in, check-out). Pricing is pure, so a cached
// entry is valid until the rate table changes; the TTL bounds how long
// a stale rate can linger.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/pkg/logger"
)

type ComputeFunc func() (domain.PriceBreakdown, error)

type Quoter interface {
	Quote(ctx context.Context, accommodationID string, checkIn, checkOut domain.Date, compute ComputeFunc) (domain.PriceBreakdown, error)
}

type QuoteCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewQuoteCache(redisURL string, ttl time.Duration) (*QuoteCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &QuoteCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func quoteKey(accommodationID string, checkIn, checkOut domain.Date) string {
	return fmt.Sprintf("quote:%s:%s:%s", accommodationID, checkIn, checkOut)
}

// Quote returns the cached breakdown or computes and stores it.
// Concurrent misses for the same key compute once via singleflight.
// Redis trouble fails open: the quote is computed, just not cached.
func (c *QuoteCache) Quote(ctx context.Context, accommodationID string, checkIn, checkOut domain.Date, compute ComputeFunc) (domain.PriceBreakdown, error) {
	key := quoteKey(accommodationID, checkIn, checkOut)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached domain.PriceBreakdown
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		logger.WarnContext(ctx, "Quote cache read failed", "error", err, "key", key)
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		breakdown, err := compute()
		if err != nil {
			return domain.PriceBreakdown{}, err
		}
		if data, err := json.Marshal(breakdown); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				logger.WarnContext(ctx, "Quote cache write failed", "error", err, "key", key)
			}
		}
		return breakdown, nil
	})
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	return result.(domain.PriceBreakdown), nil
}

func (c *QuoteCache) Close() error {
	return c.rdb.Close()
}

// Passthrough computes every quote directly; used when redis is disabled.
type Passthrough struct{}

func (Passthrough) Quote(_ context.Context, _ string, _, _ domain.Date, compute ComputeFunc) (domain.PriceBreakdown, error) {
	return compute()
}
