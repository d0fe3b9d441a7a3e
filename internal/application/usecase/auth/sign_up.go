package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type SignUpUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewSignUpUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *SignUpUseCase {
	return &SignUpUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// Execute registers the user and signs them in straight away.
func (uc *SignUpUseCase) Execute(ctx context.Context, input SignUpInput) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SignUp")
	defer span.End()

	if len(input.Password) < user.MinPasswordLength {
		return nil, apperror.NewInvalidInput("password is too short", user.ErrShortPassword)
	}

	u := &user.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     user.NormalizeEmail(input.Email),
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}
	u.PasswordHash = hash

	if err := uc.userRepo.Create(ctx, u); err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	uc.logger.Info("User signed up", zap.String("user_id", u.ID))
	return &Session{User: u, AccessToken: token}, nil
}
