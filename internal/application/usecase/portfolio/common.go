package portfolio

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

// View is a portfolio as one reader sees it.
type View struct {
	Portfolio       *portfolio.Portfolio
	Tally           vote.Tally
	CurrentUserVote vote.Type
}

func newView(p *portfolio.Portfolio, viewerID string) *View {
	return &View{
		Portfolio:       p,
		Tally:           p.Tally(),
		CurrentUserVote: p.Votes.CurrentUserVote(viewerID),
	}
}

// sideEffects runs the work every write shares: drop the cached gallery and
// announce the change. Neither may fail the request.
type sideEffects struct {
	cache     service.ListingCache
	publisher service.EventPublisher
	logger    logger.Logger
}

func (s sideEffects) after(ctx context.Context, t event.PortfolioEventType, portfolioID, userID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateListing(ctx); err != nil {
			s.logger.Warn("Failed to invalidate listing cache", zap.String("portfolio_id", portfolioID), zap.Error(err))
		}
	}

	if s.publisher == nil {
		return
	}
	payload := event.PortfolioEventPayload{
		EventType:   t,
		PortfolioID: portfolioID,
		UserID:      userID,
		OccurredAt:  time.Now().UTC(),
	}
	go func() {
		if err := s.publisher.PublishPortfolioEvent(context.Background(), payload); err != nil {
			s.logger.Error("Failed to publish Kafka event", err,
				zap.String("event_type", string(t)), zap.String("portfolio_id", portfolioID))
		}
	}()
}

// checkOwner refuses writes to a portfolio created by someone else.
func checkOwner(p *portfolio.Portfolio, userID string) error {
	if p.UserID != userID {
		return apperror.NewPermissionDenied("only the creator can change this portfolio")
	}
	return nil
}
