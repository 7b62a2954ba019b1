package lobby

import (
	"context"
	"sync/atomic"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/module"
)

// Module is the lobby server module.
type Module struct {
	enabled atomic.Bool
}

// NewModule creates the lobby module.
func NewModule() *Module { return &Module{} }

var (
	_ module.Module    = (*Module)(nil)
	_ module.Reloader  = (*Module)(nil)
	_ module.Readiness = (*Module)(nil)
)

func (m *Module) Name() string           { return "lobby" }
func (m *Module) Dependencies() []string { return nil }

func (m *Module) Enable(context.Context) error {
	m.enabled.Store(true)
	logger.Infow("lobby module enabled")
	return nil
}

func (m *Module) Disable(context.Context) error {
	m.enabled.Store(false)
	return nil
}

// Reload binds every lobby record from snap before publishing any of them,
// so a bad snapshot leaves the previous records in place.
func (m *Module) Reload(_ context.Context, snap *config.Snapshot) error {
	var (
		spawn SpawnConfig
		menu  PlayerMenuConfig
	)
	stage := []config.ChangeHandler{
		binder.Subscriber(SpawnKey, spawnSchema, func(c SpawnConfig) error {
			spawn = c
			return nil
		}),
		binder.Subscriber(PlayerMenuKey, playerMenuSchema, func(c PlayerMenuConfig) error {
			menu = c
			return nil
		}),
	}
	for _, bind := range stage {
		if err := bind(snap); err != nil {
			return err
		}
	}

	msg, err := snap.GetString(JoinMessageKey)
	if err != nil && !snap.Has(JoinMessageKey) {
		msg, err = "", nil
	}
	if err != nil {
		return err
	}

	live.spawn.Store(&spawn)
	live.menu.Store(&menu)
	live.joinMessage.Store(&msg)
	logger.Infow("lobby configuration applied", "revision", snap.Revision(), "target_server", menu.TargetServer)
	return nil
}

// Ready reports whether the module is enabled and configured.
func (m *Module) Ready() bool {
	return m.enabled.Load() && live.spawn.Load() != nil && live.menu.Load() != nil
}
