package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

func TestOpenStores_Memory(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = config.StorageDriverMemory

	stores, closeFn, err := OpenStores(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.NotNil(t, stores.Portfolios)
	assert.NotNil(t, stores.Users)
	assert.NotNil(t, stores.Listing)
	assert.NotNil(t, stores.Sessions)
	assert.NotNil(t, stores.Limiter)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = "sqlite"

	_, _, err := OpenStores(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "sqlite")
}
