package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
)

// In-process stand-ins for the Redis stores, used with the memory storage
// driver and in tests.

type memoryListingCache struct {
	mu      sync.Mutex
	items   []*portfolio.Portfolio
	version int64
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryListingCache(ttl time.Duration) service.ListingCache {
	return &memoryListingCache{ttl: ttl, now: time.Now}
}

func (c *memoryListingCache) GetListing(_ context.Context) ([]*portfolio.Portfolio, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.items == nil || !c.now().Before(c.expires) {
		return nil, false, nil
	}
	return clonePortfolios(c.items), true, nil
}

func (c *memoryListingCache) ListingVersion(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version, nil
}

func (c *memoryListingCache) SetListing(_ context.Context, version int64, portfolios []*portfolio.Portfolio) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version {
		return false, nil
	}
	c.items = clonePortfolios(portfolios)
	c.expires = c.now().Add(c.ttl)
	return true, nil
}

func (c *memoryListingCache) InvalidateListing(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.version++
	return nil
}

func clonePortfolios(in []*portfolio.Portfolio) []*portfolio.Portfolio {
	out := make([]*portfolio.Portfolio, len(in))
	for i, p := range in {
		c := p.Clone()
		out[i] = &c
	}
	return out
}

type memorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemorySessionStore() service.SessionStore {
	return &memorySessionStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *memorySessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *memorySessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

type window struct {
	count   int
	expires time.Time
}

// memoryRateLimiter drops expired windows at most once per window length, so
// keys that stop calling do not pile up.
type memoryRateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryRateLimiter() service.RateLimiter {
	return &memoryRateLimiter{windows: make(map[string]*window), now: time.Now}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string, limit int, d time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !now.Before(l.nextSweep) {
		for k, w := range l.windows {
			if !now.Before(w.expires) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(d)
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &window{expires: now.Add(d)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= limit, nil
}
