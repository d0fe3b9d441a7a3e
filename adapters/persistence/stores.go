package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/logger"
)

// Stores is every storage backend a process needs, picked by storage.driver.
type Stores struct {
	Portfolios portfolio.Repository
	Users      user.Repository
	Listing    service.ListingCache
	Sessions   service.SessionStore
	Limiter    service.RateLimiter
}

// OpenStores connects the configured backends. The returned close func
// releases them and is safe to call once the caller is done.
func OpenStores(ctx context.Context, cfg config.Config, log logger.Logger) (*Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Info("Using in-memory storage", zap.Duration("latency", cfg.Storage.Latency))
		return &Stores{
			Portfolios: NewMemoryPortfolioRepo(cfg.Storage.Latency),
			Users:      NewMemoryUserRepo(),
			Listing:    NewMemoryListingCache(cfg.Redis.ListingTTL),
			Sessions:   NewMemorySessionStore(),
			Limiter:    NewMemoryRateLimiter(),
		}, func() {}, nil

	case config.StorageDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				log.Warn("Failed to close Redis client", zap.Error(err))
			}
			pool.Close()
		}
		return &Stores{
			Portfolios: NewPostgresPortfolioRepo(pool, log),
			Users:      NewPostgresUserRepo(pool),
			Listing:    NewRedisListingCache(rdb, cfg.Redis.ListingTTL),
			Sessions:   NewRedisSessionStore(rdb),
			Limiter:    NewRedisRateLimiter(rdb),
		}, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
