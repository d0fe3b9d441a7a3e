package auth

import (
	"context"

	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
)

type CurrentUserUseCase struct {
	userRepo user.Repository
}

func NewCurrentUserUseCase(repo user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo}
}

func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, apperror.NewUnauthenticated("view your account")
	}
	return uc.userRepo.FindByID(ctx, userID)
}
