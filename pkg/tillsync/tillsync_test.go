package tillsync

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

func TestNewWiresEverything(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := New(types.Config{
		DataDir:   t.TempDir(),
		RemoteURL: "https://pos.example.com/api",
	}, logger)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Store)
	assert.NotNil(t, app.Remote)
	assert.NotNil(t, app.Probe)
	assert.NotNil(t, app.Gateway)
	assert.NotNil(t, app.Syncer)
	assert.NotNil(t, app.Observer)
	assert.Equal(t, logger, app.Logger())

	assert.Equal(t, types.DefaultListenAddr, app.Config.ListenAddr, "config is normalized")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(types.Config{RemoteURL: "https://pos.example.com/api"}, logger)
	assert.ErrorIs(t, err, types.ErrDataDirEmpty)
}
