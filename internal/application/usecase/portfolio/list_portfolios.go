package portfolio

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/logger"
)

type ListPortfoliosUseCase struct {
	repo   portfolio.Repository
	cache  service.ListingCache
	logger logger.Logger
}

func NewListPortfoliosUseCase(repo portfolio.Repository, cache service.ListingCache, log logger.Logger) *ListPortfoliosUseCase {
	return &ListPortfoliosUseCase{repo: repo, cache: cache, logger: log}
}

type ListPortfoliosInput struct {
	UserID string
	Query  string
	Page   int
	Limit  int
}

type ListPortfoliosOutput struct {
	Portfolios []*portfolio.Portfolio
	Page       int
	Limit      int
}

func (uc *ListPortfoliosUseCase) Execute(ctx context.Context, input ListPortfoliosInput) (*ListPortfoliosOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 0 {
		input.Limit = 0
	}
	offset := (input.Page - 1) * input.Limit

	out := &ListPortfoliosOutput{Page: input.Page, Limit: input.Limit}

	if input.UserID != "" || input.Query != "" {
		items, err := uc.repo.List(ctx, portfolio.ListFilter{
			UserID: input.UserID,
			Query:  input.Query,
			Limit:  input.Limit,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		out.Portfolios = items
		return out, nil
	}

	all, err := uc.gallery(ctx)
	if err != nil {
		return nil, err
	}
	out.Portfolios = paginate(all, offset, input.Limit)
	return out, nil
}

// gallery serves the unfiltered listing from the cache when it can.
func (uc *ListPortfoliosUseCase) gallery(ctx context.Context) ([]*portfolio.Portfolio, error) {
	if uc.cache != nil {
		items, ok, err := uc.cache.GetListing(ctx)
		if err != nil {
			uc.logger.Warn("Failed to read listing cache", zap.Error(err))
		}
		if ok {
			return items, nil
		}
	}

	var version int64
	fill := uc.cache != nil
	if fill {
		v, err := uc.cache.ListingVersion(ctx)
		if err != nil {
			uc.logger.Warn("Failed to read listing version", zap.Error(err))
			fill = false
		}
		version = v
	}

	items, err := uc.repo.List(ctx, portfolio.ListFilter{})
	if err != nil {
		return nil, err
	}

	if fill {
		if _, err := uc.cache.SetListing(ctx, version, items); err != nil {
			uc.logger.Warn("Failed to fill listing cache", zap.Error(err))
		}
	}
	return items, nil
}

func paginate(items []*portfolio.Portfolio, offset, limit int) []*portfolio.Portfolio {
	if offset >= len(items) {
		return []*portfolio.Portfolio{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
