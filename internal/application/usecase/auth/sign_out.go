package auth

import (
	"context"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type SignOutUseCase struct {
	sessions service.SessionStore
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewSignOutUseCase(sessions service.SessionStore, jwtSvc *auth.JWTService, log logger.Logger) *SignOutUseCase {
	return &SignOutUseCase{sessions: sessions, jwtSvc: jwtSvc, logger: log}
}

// Execute revokes the token until it would have expired on its own.
func (uc *SignOutUseCase) Execute(ctx context.Context, claims *auth.CustomClaims) error {
	if claims == nil || claims.ID == "" {
		return apperror.NewUnauthenticated("sign out")
	}
	if err := uc.sessions.Revoke(ctx, claims.ID, uc.jwtSvc.Remaining(claims)); err != nil {
		return apperror.NewInternal("failed to revoke session", err)
	}
	return nil
}
