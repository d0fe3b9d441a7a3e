package portfolio

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/editor"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/block"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type SavePortfolioUseCase struct {
	repo portfolio.Repository
	sideEffects
}

func NewSavePortfolioUseCase(repo portfolio.Repository, cache service.ListingCache, publisher service.EventPublisher, log logger.Logger) *SavePortfolioUseCase {
	return &SavePortfolioUseCase{
		repo:        repo,
		sideEffects: sideEffects{cache: cache, publisher: publisher, logger: log},
	}
}

type SavePortfolioInput struct {
	UserID    string
	Portfolio portfolio.Portfolio
}

// Execute upserts the whole aggregate. Votes are never taken from the input
// and the repository keeps the stored ledger on update, so a vote cast while
// the save is in flight survives it.
func (uc *SavePortfolioUseCase) Execute(ctx context.Context, input SavePortfolioInput) (*View, error) {
	ctx, span := tracer.Start(ctx, "SavePortfolio")
	defer span.End()

	if input.UserID == "" {
		return nil, apperror.NewUnauthenticated("save a portfolio")
	}

	p := input.Portfolio.Clone()
	if p.ID == "" {
		return nil, apperror.NewInvalidInput("portfolio id is required", portfolio.ErrMissingID)
	}
	span.SetAttributes(attribute.String("portfolio_id", p.ID))

	for i := range p.Blocks {
		p.Blocks[i] = p.Blocks[i].Normalize()
	}
	if p.Blocks == nil {
		p.Blocks = block.Sequence{}
	}

	existing, err := uc.repo.FindByID(ctx, p.ID)
	persisted := true
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		persisted = false
		p.UserID = input.UserID
		p.Votes = nil
	case err != nil:
		span.RecordError(err)
		return nil, err
	default:
		if err := checkOwner(existing, input.UserID); err != nil {
			return nil, err
		}
		p.UserID = existing.UserID
		p.Votes = existing.Votes
		p.CreatedAt = existing.CreatedAt
	}
	if p.Votes == nil {
		p.Votes = vote.Ledger{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	ed := editor.New(uc.repo, uc.logger)
	ed.Open(p, persisted)
	saved, err := ed.Save(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.after(ctx, event.PortfolioEventTypeSaved, saved.ID, saved.UserID)
	return newView(&saved, input.UserID), nil
}
