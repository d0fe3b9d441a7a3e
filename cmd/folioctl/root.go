package main

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
)

// Env is what the commands touch outside the process. Tests swap in an
// in-memory filesystem and stores.
type Env struct {
	Fs     afero.Fs
	Out    io.Writer
	Open   func(ctx context.Context) (*persistence.Stores, func(), error)
	Config func() (config.Config, error)
	// Uploader is only called by commands that push to media storage.
	Uploader func(cfg config.Config) (service.Uploader, error)
}

func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "folioctl",
		Short: "Folio admin tool",
		Long: `folioctl manages a Folio deployment from the command line.

It reads the same config.yaml and environment as the API server.

Use "folioctl [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}
	root.SetOut(env.Out)
	root.SetErr(env.Out)

	root.AddCommand(
		newSeedUserCmd(env),
		newListCmd(env),
		newQRCmd(env),
		newExportCmd(env),
		newRestoreCmd(env),
	)
	return root
}
