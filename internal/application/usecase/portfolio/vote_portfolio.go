package portfolio

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type VotePortfolioUseCase struct {
	repo portfolio.Repository
	sideEffects
}

func NewVotePortfolioUseCase(repo portfolio.Repository, cache service.ListingCache, publisher service.EventPublisher, log logger.Logger) *VotePortfolioUseCase {
	return &VotePortfolioUseCase{
		repo:        repo,
		sideEffects: sideEffects{cache: cache, publisher: publisher, logger: log},
	}
}

type VotePortfolioInput struct {
	UserID      string
	PortfolioID string
	VoteType    vote.Type
}

// Execute replaces the user's vote on the portfolio. Anonymous votes are
// refused before the store is touched.
func (uc *VotePortfolioUseCase) Execute(ctx context.Context, input VotePortfolioInput) (*View, error) {
	ctx, span := tracer.Start(ctx, "VotePortfolio")
	defer span.End()
	span.SetAttributes(
		attribute.String("portfolio_id", input.PortfolioID),
		attribute.String("vote_type", string(input.VoteType)),
	)

	if input.UserID == "" {
		return nil, apperror.NewUnauthenticated("vote")
	}
	if !input.VoteType.Valid() {
		return nil, apperror.NewInvalidInput("vote_type must be upvote or downvote", vote.ErrInvalidType)
	}

	p, err := uc.repo.Vote(ctx, input.PortfolioID, input.UserID, input.VoteType)
	if err != nil {
		span.RecordError(err)
		uc.logger.Warn("Vote failed", zap.String("portfolio_id", input.PortfolioID), zap.Error(err))
		return nil, err
	}

	uc.after(ctx, event.PortfolioEventTypeVoted, p.ID, input.UserID)
	return newView(p, input.UserID), nil
}
