package portfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/share"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// QRPublicID is where the worker keeps a portfolio's QR image in media storage.
func QRPublicID(portfolioID string) string {
	return qrFolder(portfolioID) + "/qr"
}

func qrFolder(portfolioID string) string {
	return "portfolios/" + portfolioID
}

// ProcessPortfolioEventUseCase is run by the worker for every portfolio event.
type ProcessPortfolioEventUseCase struct {
	repo     portfolio.Repository
	qr       *share.QRCodeUseCase
	uploader service.Uploader
	cache    service.ListingCache
	logger   logger.Logger
}

func NewProcessPortfolioEventUseCase(repo portfolio.Repository, qr *share.QRCodeUseCase, up service.Uploader, cache service.ListingCache, log logger.Logger) *ProcessPortfolioEventUseCase {
	return &ProcessPortfolioEventUseCase{repo: repo, qr: qr, uploader: up, cache: cache, logger: log}
}

func (uc *ProcessPortfolioEventUseCase) Execute(ctx context.Context, payload event.PortfolioEventPayload) error {
	log := uc.logger.With(
		zap.String("event_type", string(payload.EventType)),
		zap.String("portfolio_id", payload.PortfolioID),
	)
	log.Info("Worker processing portfolio event")

	if uc.cache != nil {
		if err := uc.cache.InvalidateListing(ctx); err != nil {
			log.Warn("Failed to invalidate listing cache", zap.Error(err))
		}
	}

	switch payload.EventType {
	case event.PortfolioEventTypeSaved:
		return uc.publishQR(ctx, log, payload.PortfolioID)
	case event.PortfolioEventTypeDeleted:
		if err := uc.uploader.Delete(ctx, QRPublicID(payload.PortfolioID)); err != nil {
			return fmt.Errorf("delete QR asset failed: %w", err)
		}
		log.Info("Removed QR asset")
	case event.PortfolioEventTypeVoted:
		// only the cached listing depends on votes
	default:
		log.Warn("Unknown portfolio event type, skip")
	}
	return nil
}

func (uc *ProcessPortfolioEventUseCase) publishQR(ctx context.Context, log logger.Logger, portfolioID string) error {
	p, err := uc.repo.FindByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Warn("Portfolio not found (deleted?), skip")
			return nil
		}
		return fmt.Errorf("get portfolio failed: %w", err)
	}

	out, err := uc.qr.Render(p)
	if err != nil {
		return err
	}

	url, err := uc.uploader.Upload(ctx, bytes.NewReader(out.PNG), qrFolder(p.ID), "qr")
	if err != nil {
		return fmt.Errorf("upload QR failed: %w", err)
	}
	log.Info("Uploaded QR code", zap.String("url", url))
	return nil
}
