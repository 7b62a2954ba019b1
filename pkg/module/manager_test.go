package module

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftsad/lobby/pkg/config"
	errno "github.com/shiftsad/lobby/pkg/errors"
)

type testModule struct {
	name       string
	deps       []string
	log        *[]string
	enableErr  error
	disableErr error
	reloadErr  error
	ready      bool
	enables    int
	reloaded   *config.Snapshot
}

func (m *testModule) Name() string           { return m.name }
func (m *testModule) Dependencies() []string { return m.deps }

func (m *testModule) Enable(context.Context) error {
	if m.enableErr != nil {
		return m.enableErr
	}
	m.enables++
	*m.log = append(*m.log, "enable "+m.name)
	return nil
}

func (m *testModule) Disable(context.Context) error {
	*m.log = append(*m.log, "disable "+m.name)
	return m.disableErr
}

func (m *testModule) Reload(_ context.Context, snap *config.Snapshot) error {
	m.reloaded = snap
	return m.reloadErr
}

func (m *testModule) Ready() bool { return m.ready }

// plainModule has no optional capabilities.
type plainModule struct{ name string }

func (m plainModule) Name() string                  { return m.name }
func (m plainModule) Dependencies() []string        { return nil }
func (m plainModule) Enable(context.Context) error  { return nil }
func (m plainModule) Disable(context.Context) error { return nil }

func TestManagerLifecycle(t *testing.T) {
	var log []string
	mgr := NewManager()
	lobby := &testModule{name: "lobby", deps: []string{"core"}, log: &log, ready: true}
	core := &testModule{name: "core", log: &log, ready: true}
	require.NoError(t, mgr.Register(lobby))
	require.NoError(t, mgr.Register(core))
	require.NoError(t, mgr.Register(plainModule{name: "plain"}))

	assert.ErrorIs(t, mgr.Register(&testModule{name: "core", log: &log}), errno.ErrDuplicateModule)
	assert.Equal(t, []string{"lobby", "core", "plain"}, mgr.Modules())

	ctx := context.Background()
	require.NoError(t, mgr.EnableAll(ctx))
	require.NoError(t, mgr.EnableAll(ctx))
	assert.Equal(t, []string{"core", "lobby", "plain"}, mgr.Enabled())
	assert.Equal(t, 1, core.enables)
	assert.True(t, mgr.Ready())

	snap := config.MustSnapshot(map[string]any{"lobby": map[string]any{}})
	require.NoError(t, mgr.OnConfigChange(snap))
	assert.Same(t, snap, lobby.reloaded)
	assert.Same(t, snap, core.reloaded)

	require.NoError(t, mgr.DisableAll(ctx))
	assert.Empty(t, mgr.Enabled())
	assert.Equal(t, []string{"enable core", "enable lobby", "disable lobby", "disable core"}, log)
}

func TestManagerEnableFailures(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		var log []string
		mgr := NewManager()
		require.NoError(t, mgr.Register(&testModule{name: "lobby", deps: []string{"core"}, log: &log}))
		err := mgr.EnableAll(context.Background())
		assert.ErrorContains(t, err, `"lobby" depends on "core"`)
		assert.Empty(t, log)
	})

	t.Run("cycle", func(t *testing.T) {
		var log []string
		mgr := NewManager()
		require.NoError(t, mgr.Register(&testModule{name: "a", deps: []string{"b"}, log: &log}))
		require.NoError(t, mgr.Register(&testModule{name: "b", deps: []string{"a"}, log: &log}))
		err := mgr.EnableAll(context.Background())
		assert.EqualError(t, err, "circular dependency detected: a -> b -> a")
		assert.Empty(t, log)
	})

	t.Run("enable error stops", func(t *testing.T) {
		var log []string
		boom := errors.New("boom")
		mgr := NewManager()
		require.NoError(t, mgr.Register(&testModule{name: "core", log: &log}))
		require.NoError(t, mgr.Register(&testModule{name: "lobby", deps: []string{"core"}, log: &log, enableErr: boom}))
		err := mgr.EnableAll(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"core"}, mgr.Enabled())
	})
}

func TestManagerErrorsAreJoined(t *testing.T) {
	var log []string
	mgr := NewManager()
	first := errors.New("first")
	second := errors.New("second")
	require.NoError(t, mgr.Register(&testModule{name: "a", log: &log, disableErr: first, reloadErr: first}))
	require.NoError(t, mgr.Register(&testModule{name: "b", log: &log, disableErr: second, reloadErr: second, ready: true}))
	require.NoError(t, mgr.EnableAll(context.Background()))
	assert.False(t, mgr.Ready())

	err := mgr.ReloadAll(context.Background(), config.MustSnapshot(nil))
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)

	err = mgr.DisableAll(context.Background())
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, []string{"enable a", "enable b", "disable b", "disable a"}, log)
}
