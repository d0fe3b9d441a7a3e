package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
)

const (
	listingKey         = "portfolio:listing"
	listingVersionKey  = "portfolio:listing:version"
	revokedKeyPrefix   = "session:revoked:"
	rateLimitKeyPrefix = "ratelimit:"
)

type redisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) service.ListingCache {
	return &redisListingCache{client: client, ttl: ttl}
}

// jitter spreads expiry by ±10% so replicas do not refill at the same instant.
func jitter(base time.Duration) time.Duration {
	if base/5 <= 0 {
		return base
	}
	actual := base + time.Duration(rand.Int63n(int64(base/5))-int64(base/10))
	if actual <= 0 {
		return base
	}
	return actual
}

func (c *redisListingCache) GetListing(ctx context.Context) ([]*portfolio.Portfolio, bool, error) {
	raw, err := c.client.Get(ctx, listingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []*portfolio.Portfolio
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next fill.
		return nil, false, nil
	}
	return items, true, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd getter) (int64, error) {
	v, err := cmd.Get(ctx, listingVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisListingCache) ListingVersion(ctx context.Context) (int64, error) {
	return readVersion(ctx, c.client)
}

// SetListing watches the version key, so an invalidation racing the write
// aborts the transaction instead of being overwritten.
func (c *redisListingCache) SetListing(ctx context.Context, version int64, portfolios []*portfolio.Portfolio) (bool, error) {
	raw, err := json.Marshal(portfolios)
	if err != nil {
		return false, err
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listingKey, raw, jitter(c.ttl))
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, listingVersionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored, nil
}

func (c *redisListingCache) InvalidateListing(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, listingKey)
		pipe.Incr(ctx, listingVersionKey)
		return nil
	})
	return err
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) service.SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (s *redisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Counts a hit and sets the window expiry on the first one.
var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if tonumber(current) == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type redisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) service.RateLimiter {
	return &redisRateLimiter{client: client}
}

// Allow fails open: on a Redis error it reports true together with the error.
func (l *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	count, err := allowScript.Run(ctx, l.client, []string{rateLimitKeyPrefix + key}, seconds).Int()
	if err != nil {
		return true, err
	}
	return count <= limit, nil
}
