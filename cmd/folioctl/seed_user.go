package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
)

func newSeedUserCmd(env *Env) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user account",
		Long: `Create a user account directly in storage, skipping the sign-up endpoint.

Example:
  folioctl seed-user --name "Jane Doe" --email jane@example.com --password s3cret-pass`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < user.MinPasswordLength {
				return user.ErrShortPassword
			}

			u := &user.User{
				ID:        uuid.NewString(),
				Name:      name,
				Email:     user.NormalizeEmail(email),
				CreatedAt: time.Now().UTC(),
			}
			if err := u.Validate(); err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u.PasswordHash = hash

			stores, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := stores.Users.Create(cmd.Context(), u); err != nil {
				if errors.Is(err, apperror.ErrConflict) {
					fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", u.Email)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
