package portfolio

import (
	"context"
	"errors"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/editor"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type DeletePortfolioUseCase struct {
	repo portfolio.Repository
	sideEffects
}

func NewDeletePortfolioUseCase(repo portfolio.Repository, cache service.ListingCache, publisher service.EventPublisher, log logger.Logger) *DeletePortfolioUseCase {
	return &DeletePortfolioUseCase{
		repo:        repo,
		sideEffects: sideEffects{cache: cache, publisher: publisher, logger: log},
	}
}

type DeletePortfolioInput struct {
	UserID      string
	PortfolioID string
}

// Execute removes the portfolio. Deleting one that is already gone succeeds.
func (uc *DeletePortfolioUseCase) Execute(ctx context.Context, input DeletePortfolioInput) error {
	if input.UserID == "" {
		return apperror.NewUnauthenticated("delete a portfolio")
	}

	ed := editor.New(uc.repo, uc.logger)
	if err := ed.Load(ctx, input.PortfolioID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}
	current := ed.Portfolio()
	if err := checkOwner(&current, input.UserID); err != nil {
		return err
	}

	if err := ed.Delete(ctx); err != nil {
		return err
	}

	uc.after(ctx, event.PortfolioEventTypeDeleted, input.PortfolioID, current.UserID)
	return nil
}
