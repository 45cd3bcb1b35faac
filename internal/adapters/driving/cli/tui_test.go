package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestNewTUIApp(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	userID = 12
	t.Cleanup(func() { userID = 0 })

	app, err := newTUIApp(tuiCmd)

	require.NoError(t, err)
	assert.Equal(t, domain.UserOwner(12), app.Owner())
}

func TestNewTUIApp_RequiresOwner(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	t.Setenv(EnvUserID, "")
	t.Setenv(EnvSessionID, "")

	_, err := newTUIApp(tuiCmd)

	assert.Error(t, err)
}

func TestNewTUIApp_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := newTUIApp(tuiCmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
