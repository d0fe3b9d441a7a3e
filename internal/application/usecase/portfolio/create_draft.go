package portfolio

import (
	"context"

	"github.com/khoahotran/folio/internal/application/editor"
	"github.com/khoahotran/folio/internal/domain/portfolio"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type CreateDraftUseCase struct {
	repo   portfolio.Repository
	logger logger.Logger
}

func NewCreateDraftUseCase(repo portfolio.Repository, log logger.Logger) *CreateDraftUseCase {
	return &CreateDraftUseCase{repo: repo, logger: log}
}

type CreateDraftInput struct {
	UserID string
}

// Execute returns a draft with placeholder content. Nothing is stored until
// the draft is saved.
func (uc *CreateDraftUseCase) Execute(_ context.Context, input CreateDraftInput) (*portfolio.Portfolio, error) {
	if input.UserID == "" {
		return nil, apperror.NewUnauthenticated("create a portfolio")
	}
	draft := editor.New(uc.repo, uc.logger).Create(input.UserID)
	return &draft, nil
}
