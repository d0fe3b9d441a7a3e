package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/khoahotran/folio/adapters/media_storage"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

func main() {
	env := &Env{
		Fs:  afero.NewOsFs(),
		Out: os.Stdout,
		Open: func(ctx context.Context) (*persistence.Stores, func(), error) {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, nil, fmt.Errorf("load config: %w", err)
			}
			return persistence.OpenStores(ctx, cfg, logger.NewZapLogger(cfg.App.Env))
		},
		Config: func() (config.Config, error) { return config.LoadConfig() },
		Uploader: func(cfg config.Config) (service.Uploader, error) {
			return media_storage.NewCloudinaryAdapter(cfg, logger.NewZapLogger(cfg.App.Env))
		},
	}

	if err := NewRootCmd(env).Execute(); err != nil {
		os.Exit(1)
	}
}
