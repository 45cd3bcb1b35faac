package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestNeedsServices(t *testing.T) {
	assert.True(t, needsServices([]string{"--user", "1", "search", "q"}))
	assert.True(t, needsServices(nil))
	assert.False(t, needsServices([]string{"settings", "show"}))
	assert.False(t, needsServices([]string{"version"}))
	assert.False(t, needsServices([]string{"search", "--help"}))
}

func TestWire_MemoryBackends(t *testing.T) {
	t.Setenv("CLIPMIND_HOME", inMemoryHome)

	settings := domain.DefaultAppSettings()
	settings.Storage.Backend = domain.StorageMemory
	settings.History.Backend = domain.HistoryMemory

	a, err := wire(context.Background(), &settings)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Services.Search)
	assert.NotNil(t, a.Services.Indexing)
	assert.NotNil(t, a.Services.Answer)
	assert.NotNil(t, a.Services.Videos)
	assert.NotNil(t, a.Services.History)
}

func TestWire_SQLiteInDataDir(t *testing.T) {
	t.Setenv("CLIPMIND_HOME", inMemoryHome)

	settings := domain.DefaultAppSettings()
	settings.Storage.DataDir = t.TempDir()
	settings.History.Backend = domain.HistoryNone

	a, err := wire(context.Background(), &settings)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Services.Videos)
	assert.Nil(t, a.Services.History)
}

func TestWire_PostgresUnavailable(t *testing.T) {
	t.Setenv("CLIPMIND_HOME", inMemoryHome)

	settings := domain.DefaultAppSettings()
	settings.Storage.Backend = domain.StoragePostgres
	settings.History.Backend = domain.HistoryNone

	_, err := wire(context.Background(), &settings)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
