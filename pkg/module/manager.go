package module

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/config"
	errno "github.com/shiftsad/lobby/pkg/errors"
)

// Manager owns a set of modules.
type Manager struct {
	mu      sync.Mutex
	modules []Module
	names   map[string]bool
	enabled []Module
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{names: make(map[string]bool)}
}

// Register adds m. Names are unique.
func (mgr *Manager) Register(m Module) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.names[m.Name()] {
		return errno.ErrDuplicateModule.WithMessagef("module already registered: %s", m.Name())
	}
	mgr.names[m.Name()] = true
	mgr.modules = append(mgr.modules, m)
	logger.Debugw("registered module", "module", m.Name(), "dependencies", m.Dependencies())
	return nil
}

// EnableAll enables every module after its dependencies. Modules that are
// already enabled are skipped, so calling it again only enables modules
// registered since. On failure the modules enabled so far stay enabled.
func (mgr *Manager) EnableAll(ctx context.Context) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	ordered, err := Resolve(mgr.modules)
	if err != nil {
		return err
	}
	for _, m := range ordered {
		if mgr.isEnabled(m.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Infow("enabling module", "module", m.Name())
		if err := m.Enable(ctx); err != nil {
			return fmt.Errorf("failed to enable module %s: %w", m.Name(), err)
		}
		mgr.enabled = append(mgr.enabled, m)
	}
	return nil
}

func (mgr *Manager) isEnabled(name string) bool {
	return slices.ContainsFunc(mgr.enabled, func(m Module) bool { return m.Name() == name })
}

// DisableAll disables enabled modules in reverse enable order. Every module
// is attempted; the errors are joined.
func (mgr *Manager) DisableAll(ctx context.Context) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	var errs []error
	for i := len(mgr.enabled) - 1; i >= 0; i-- {
		m := mgr.enabled[i]
		logger.Infow("disabling module", "module", m.Name())
		if err := m.Disable(ctx); err != nil {
			logger.Errorw("failed to disable module", "module", m.Name(), "error", err)
			errs = append(errs, fmt.Errorf("disable module %s: %w", m.Name(), err))
		}
	}
	mgr.enabled = nil
	return errors.Join(errs...)
}

// ReloadAll hands snap to every enabled Reloader in enable order.
func (mgr *Manager) ReloadAll(ctx context.Context, snap *config.Snapshot) error {
	mgr.mu.Lock()
	enabled := slices.Clone(mgr.enabled)
	mgr.mu.Unlock()

	var errs []error
	for _, m := range enabled {
		r, ok := m.(Reloader)
		if !ok {
			continue
		}
		if err := r.Reload(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("reload module %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// OnConfigChange lets the manager subscribe to a config watcher.
func (mgr *Manager) OnConfigChange(snap *config.Snapshot) error {
	return mgr.ReloadAll(context.Background(), snap)
}

var _ config.Reloadable = (*Manager)(nil)

// Enabled returns the names of enabled modules in enable order.
func (mgr *Manager) Enabled() []string {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	names := make([]string, 0, len(mgr.enabled))
	for _, m := range mgr.enabled {
		names = append(names, m.Name())
	}
	return names
}

// Ready reports whether every enabled module that tracks readiness is ready.
func (mgr *Manager) Ready() bool {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for _, m := range mgr.enabled {
		if r, ok := m.(Readiness); ok && !r.Ready() {
			return false
		}
	}
	return true
}

// Modules returns the registered module names in registration order.
func (mgr *Manager) Modules() []string {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	names := make([]string, 0, len(mgr.modules))
	for _, m := range mgr.modules {
		names = append(names, m.Name())
	}
	return names
}
