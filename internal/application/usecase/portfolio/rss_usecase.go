package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/logger"
)

const feedSize = 20

type RSSUseCase struct {
	repo    portfolio.Repository
	baseURL string
	logger  logger.Logger
}

func NewRSSUseCase(repo portfolio.Repository, baseURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

// Execute builds a feed of the newest portfolios.
func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	all, err := uc.repo.List(ctx, portfolio.ListFilter{})
	if err != nil {
		uc.logger.Error("Failed to list portfolios for RSS", err)
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       "Folio - latest portfolios",
		Link:        &feeds.Link{Href: uc.baseURL},
		Description: "Recently updated portfolios.",
		Created:     time.Now(),
	}

	// newest first
	for i := len(all) - 1; i >= 0 && len(feed.Items) < feedSize; i-- {
		p := all[i]
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          p.ID,
			Title:       p.Title,
			Link:        &feeds.Link{Href: uc.baseURL + p.SharePath()},
			Description: p.Tagline,
			Content:     p.Description,
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		})
	}

	uc.logger.Info("RSS feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
