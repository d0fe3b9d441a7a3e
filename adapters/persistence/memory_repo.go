package persistence

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
)

// memoryPortfolioRepo keeps portfolios in insertion order. Every call waits
// latency first, so callers see the same asynchrony as a remote store.
type memoryPortfolioRepo struct {
	mu      sync.RWMutex
	items   []portfolio.Portfolio
	latency time.Duration
}

func NewMemoryPortfolioRepo(latency time.Duration, seed ...portfolio.Portfolio) portfolio.Repository {
	r := &memoryPortfolioRepo{latency: latency}
	for _, p := range seed {
		r.items = append(r.items, p.Clone())
	}
	return r
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *memoryPortfolioRepo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func matches(p portfolio.Portfolio, f portfolio.ListFilter) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Tagline), q)
}

func (r *memoryPortfolioRepo) List(ctx context.Context, f portfolio.ListFilter) ([]*portfolio.Portfolio, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*portfolio.Portfolio, 0, len(r.items))
	skipped := 0
	for _, p := range r.items {
		if !matches(p, f) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		c := p.Clone()
		out = append(out, &c)
	}
	return out, nil
}

func (r *memoryPortfolioRepo) FindByID(ctx context.Context, id string) (*portfolio.Portfolio, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperror.NewNotFound("portfolio", id)
	}
	c := r.items[i].Clone()
	return &c, nil
}

func (r *memoryPortfolioRepo) Upsert(ctx context.Context, p *portfolio.Portfolio) (*portfolio.Portfolio, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := p.Clone()
	if i := r.indexOf(p.ID); i >= 0 {
		stored.CreatedAt = r.items[i].CreatedAt
		stored.Votes = append(vote.Ledger{}, r.items[i].Votes...)
		r.items[i] = stored
	} else {
		r.items = append(r.items, stored)
	}
	out := stored.Clone()
	return &out, nil
}

func (r *memoryPortfolioRepo) Delete(ctx context.Context, id string) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.items = append(r.items[:i:i], r.items[i+1:]...)
	}
	return nil
}

func (r *memoryPortfolioRepo) Vote(ctx context.Context, portfolioID, userID string, t vote.Type) (*portfolio.Portfolio, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(portfolioID)
	if i < 0 {
		return nil, apperror.NewNotFound("portfolio", portfolioID)
	}
	r.items[i].Votes = r.items[i].Votes.Cast(userID, t)
	c := r.items[i].Clone()
	return &c, nil
}

type memoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string
}

func NewMemoryUserRepo() user.Repository {
	return &memoryUserRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return apperror.NewConflict("user", "email", u.Email)
	}
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	return &u, nil
}
