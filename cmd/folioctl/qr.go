package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/khoahotran/folio/internal/application/usecase/share"
	"github.com/khoahotran/folio/pkg/logger"
)

func newQRCmd(env *Env) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "qr <portfolio-id>",
		Short: "Write a portfolio's share QR code to a PNG file",
		Long: `Render the QR code for a portfolio's public page and write it as
portfolio-<id>-qr.png into the output directory.

Example:
  folioctl qr 6f1c... --out ./qr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.Config()
			if err != nil {
				return err
			}
			stores, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			uc := share.NewQRCodeUseCase(stores.Portfolios, cfg.App.BaseURL, cfg.Share.QRSize, logger.NewNop())
			out, err := uc.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := env.Fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			path := filepath.Join(dir, out.FileName)
			if err := afero.WriteFile(env.Fs, path, out.PNG, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s for %s\n", path, out.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Output directory")
	return cmd
}
