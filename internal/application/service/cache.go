package service

import (
	"context"
	"time"

	"github.com/khoahotran/folio/internal/domain/portfolio"
)

// ListingCache holds the gallery snapshot so list requests skip the store.
// Every InvalidateListing bumps the listing version. A filler reads the
// version before reading the store and hands it to SetListing, which drops
// the fill if an invalidation happened in between.
type ListingCache interface {
	GetListing(ctx context.Context) ([]*portfolio.Portfolio, bool, error)
	ListingVersion(ctx context.Context) (int64, error)
	// SetListing reports whether the listing was stored.
	SetListing(ctx context.Context, version int64, portfolios []*portfolio.Portfolio) (bool, error)
	InvalidateListing(ctx context.Context) error
}

// SessionStore remembers revoked token ids until the token would have expired anyway.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
