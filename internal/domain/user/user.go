package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

const MinPasswordLength = 8

var (
	ErrInvalidEmail  = errors.New("email address is not valid")
	ErrMissingName   = errors.New("name is required")
	ErrShortPassword = errors.New("password must be at least 8 characters")
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrMissingName
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
