package portfolio

import (
	"context"

	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/logger"
)

type GetPortfolioUseCase struct {
	repo   portfolio.Repository
	logger logger.Logger
}

func NewGetPortfolioUseCase(repo portfolio.Repository, log logger.Logger) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{repo: repo, logger: log}
}

type GetPortfolioInput struct {
	PortfolioID string
	// ViewerID may be empty for anonymous readers.
	ViewerID string
}

func (uc *GetPortfolioUseCase) Execute(ctx context.Context, input GetPortfolioInput) (*View, error) {
	p, err := uc.repo.FindByID(ctx, input.PortfolioID)
	if err != nil {
		return nil, err
	}
	return newView(p, input.ViewerID), nil
}
