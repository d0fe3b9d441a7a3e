package portfolio

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/editor"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// EditPortfolioUseCase loads a stored portfolio, runs editor commands on it
// and saves the result.
type EditPortfolioUseCase struct {
	repo portfolio.Repository
	sideEffects
}

func NewEditPortfolioUseCase(repo portfolio.Repository, cache service.ListingCache, publisher service.EventPublisher, log logger.Logger) *EditPortfolioUseCase {
	return &EditPortfolioUseCase{
		repo:        repo,
		sideEffects: sideEffects{cache: cache, publisher: publisher, logger: log},
	}
}

type EditPortfolioInput struct {
	UserID      string
	PortfolioID string
	Commands    []editor.Command
}

func (uc *EditPortfolioUseCase) Execute(ctx context.Context, input EditPortfolioInput) (*View, error) {
	ctx, span := tracer.Start(ctx, "EditPortfolio")
	defer span.End()
	span.SetAttributes(
		attribute.String("portfolio_id", input.PortfolioID),
		attribute.Int("command_count", len(input.Commands)),
	)

	if input.UserID == "" {
		return nil, apperror.NewUnauthenticated("edit a portfolio")
	}

	ed := editor.New(uc.repo, uc.logger)
	if err := ed.Load(ctx, input.PortfolioID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	current := ed.Portfolio()
	if err := checkOwner(&current, input.UserID); err != nil {
		return nil, err
	}

	if _, err := ed.Apply(input.Commands...); err != nil {
		return nil, err
	}
	saved, err := ed.Save(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.after(ctx, event.PortfolioEventTypeSaved, saved.ID, saved.UserID)
	return newView(&saved, input.UserID), nil
}
