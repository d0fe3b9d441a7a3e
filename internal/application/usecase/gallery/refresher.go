package gallery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/logger"
)

// Refresher re-reads the gallery listing on a fixed interval and keeps the
// listing cache warm.
type Refresher struct {
	repo     portfolio.Repository
	cache    service.ListingCache
	interval time.Duration
	logger   logger.Logger
}

func NewRefresher(repo portfolio.Repository, cache service.ListingCache, interval time.Duration, log logger.Logger) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{repo: repo, cache: cache, interval: interval, logger: log}
}

// Refresh runs one pass and returns how many portfolios were listed. When a
// write invalidates the listing while the pass is reading, the pass leaves
// the cache empty and the next reader fills it.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	version, err := r.cache.ListingVersion(ctx)
	if err != nil {
		return 0, err
	}
	items, err := r.repo.List(ctx, portfolio.ListFilter{})
	if err != nil {
		return 0, err
	}
	stored, err := r.cache.SetListing(ctx, version, items)
	if err != nil {
		return 0, err
	}
	if !stored {
		r.logger.Debug("Gallery changed during refresh, fill skipped")
	}
	return len(items), nil
}

// Run refreshes immediately, then on every tick, until ctx is cancelled. A
// failed pass is logged and the loop carries on.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Gallery refresher stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	n, err := r.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("Gallery refresh failed", zap.Error(err))
		}
		return
	}
	r.logger.Debug("Gallery refreshed", zap.Int("count", n))
}
