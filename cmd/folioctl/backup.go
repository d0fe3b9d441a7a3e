package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/application/usecase/backup"
	"github.com/khoahotran/folio/pkg/logger"
)

func newExportCmd(env *Env) *cobra.Command {
	var dir string
	var upload bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every portfolio to a JSON snapshot",
		Long: `Write every portfolio, votes included, to portfolios-<timestamp>.json in
the output directory. With --upload the snapshot is also pushed to media storage.

Example:
  folioctl export --out ./backups --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var uploader service.Uploader
			if upload {
				cfg, err := env.Config()
				if err != nil {
					return err
				}
				if uploader, err = env.Uploader(cfg); err != nil {
					return fmt.Errorf("init uploader: %w", err)
				}
			}

			out, err := backup.NewBackupUseCase(stores.Portfolios, uploader, logger.NewNop()).Export(cmd.Context(), upload)
			if err != nil {
				return err
			}

			if err := env.Fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			path := filepath.Join(dir, out.FileName)
			if err := afero.WriteFile(env.Fs, path, out.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d portfolios to %s\n", out.Count, path)
			if out.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded to %s\n", out.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&upload, "upload", false, "Also upload the snapshot to media storage")
	return cmd
}

func newRestoreCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <snapshot.json>",
		Short: "Upsert every portfolio from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(env.Fs, args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			stores, closeFn, err := env.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := backup.NewBackupUseCase(stores.Portfolios, nil, logger.NewNop()).Restore(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d portfolios\n", n)
			return nil
		},
	}
}
