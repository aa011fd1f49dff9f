package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v3"

	"github.com/shhac/coordinator/internal/app"
)

// parse runs the command with args and captures the configuration its
// action would use.
func parse(t *testing.T, args ...string) *app.Config {
	t.Helper()
	var cfg *app.Config
	cmd := newCommand()
	cmd.Action = func(_ context.Context, cmd *cli.Command) error {
		var err error
		cfg, err = loadConfig(cmd)
		return err
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"coordinator"}, args...)))
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := parse(t)
	assert.Equal(t, app.DefaultConfig(), cfg)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	cfg := parse(t, "--debug", "--storage", "diskv", "--codec", "json", "--log-file", "/tmp/coordinator.log", "--state-key", "inbox", "--duration", "300ms", "--curve", "ease-out")

	assert.True(t, cfg.Debug)
	assert.Equal(t, app.BackendDiskv, cfg.Storage)
	assert.Equal(t, app.CodecJSON, cfg.Codec)
	assert.Equal(t, "/tmp/coordinator.log", cfg.LogFile)
	assert.Equal(t, "inbox", cfg.StateKey)
	assert.Equal(t, 300*time.Millisecond, cfg.Animation.Duration)
	assert.Equal(t, app.CurveEaseOut, cfg.Animation.Curve)
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coordinator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: memory\nstate_key: from-file\n"), 0644))

	cfg := parse(t, "-c", path, "--state-key", "from-flag")

	assert.Equal(t, app.BackendMemory, cfg.Storage)
	assert.Equal(t, "from-flag", cfg.StateKey)
}
