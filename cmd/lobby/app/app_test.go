package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/pkg/config/binder"
	errno "github.com/shiftsad/lobby/pkg/errors"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	a := NewApp()
	var out bytes.Buffer
	a.Command().SetOut(&out)
	base := []string{"--config.data-dir", t.TempDir(), "--config.env-prefix", "", "--log.level", "error"}
	err := a.Execute(ctx, append(args, base...))
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := execute(t, context.Background(), "check")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration")
	assert.Contains(t, out, "2 commands, 2 listeners on 2 events, 2 config consumers")
	assert.Contains(t, out, "modules        lobby")
}

func TestCheckReportsBadConfiguration(t *testing.T) {
	override := filepath.Join(t.TempDir(), "override.properties")
	require.NoError(t, os.WriteFile(override, []byte("lobby.player_menu.target_server=Not A Slug\n"), 0o644))

	out, err := execute(t, context.Background(), "check", "--config.files", override)
	require.Error(t, err)
	assert.ErrorIs(t, err, binder.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "lobby.player_menu.target_server")
	assert.Contains(t, out, "startup failed")
	assert.Contains(t, out, "lobby.player_menu.target_server: ")
	assert.NotEqual(t, errno.ExitOK, errno.ExitCode(err))
}

func TestCheckMissingLayer(t *testing.T) {
	_, err := execute(t, context.Background(), "check", "--config.files", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errno.ExitNoInput, errno.ExitCode(err))
}

func TestConfigDump(t *testing.T) {
	out, err := execute(t, context.Background(), "config", "dump", "lobby.spawn")
	require.NoError(t, err)
	var spawn map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &spawn))
	assert.Equal(t, map[string]any{"x": 0.5, "y": 64, "z": 0.5, "yaw": 0, "pitch": 0}, spawn)

	out, err = execute(t, context.Background(), "config", "dump")
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	require.Contains(t, tree, "lobby")
	menu, ok := tree["lobby"].(map[string]any)["player_menu"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "survival", menu["target_server"])
	assert.Equal(t, 40, menu["animation_duration"])

	_, err = execute(t, context.Background(), "config", "dump", "lobby.nowhere")
	assert.Equal(t, errno.ExitUsage, errno.ExitCode(err))
}

func TestExtensions(t *testing.T) {
	out, err := execute(t, context.Background(), "extensions")
	require.NoError(t, err)
	assert.Contains(t, out, "aliases=hub,lobby")
	assert.Contains(t, out, "permission=lobby.command.play")
	assert.Contains(t, out, "event=player-join")
	assert.Contains(t, out, "lobby.player_menu")

	out, err = execute(t, context.Background(), "extensions", "--kind", "listener")
	require.NoError(t, err)
	assert.Contains(t, out, "event=player-quit")
	assert.NotContains(t, out, "aliases=")

	_, err = execute(t, context.Background(), "extensions", "--kind", "plugin")
	assert.Equal(t, errno.ExitUsage, errno.ExitCode(err))
}

func TestServeUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := execute(t, ctx)
	require.NoError(t, err)
}

func TestInvalidOptions(t *testing.T) {
	_, err := execute(t, context.Background(), "check", "--config.files", "env:whatever")
	assert.Equal(t, errno.ExitUsage, errno.ExitCode(err))
}

func TestBootstrapOptions(t *testing.T) {
	bo, err := bootstrapOptions(NewOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"player_menu", "spawn"}, bo.Schemas.Names())
	assert.Contains(t, bo.Factories, "github.com/shiftsad/lobby/internal/lobby.SpawnCommand")
	require.Len(t, bo.Modules, 1)
	assert.Equal(t, "lobby", bo.Modules[0].Name())
}
