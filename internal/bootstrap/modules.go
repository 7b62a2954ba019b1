package bootstrap

import (
	"context"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/module"
)

const modulesWatchID = "modules"

// ModulesInitializer enables the modules and hands them the first snapshot.
// With a watcher, later snapshots reach them too.
type ModulesInitializer struct {
	st      *state
	modules []module.Module
}

func (mi *ModulesInitializer) Name() string { return "modules" }

func (mi *ModulesInitializer) Dependencies() []string { return []string{"config", "registry"} }

func (mi *ModulesInitializer) Initialize(ctx context.Context) error {
	mgr := module.NewManager()
	mi.st.manager = mgr
	for _, m := range mi.modules {
		if err := mgr.Register(m); err != nil {
			return err
		}
	}
	if err := mgr.EnableAll(ctx); err != nil {
		return err
	}
	if err := mgr.ReloadAll(ctx, mi.st.snapshot); err != nil {
		return err
	}

	if mi.st.watcher != nil {
		mi.st.watcher.Subscribe(modulesWatchID, config.NewReloadableSubscriber(mgr, "").Handler())
	}
	return nil
}

// Shutdown disables the enabled modules in reverse order.
func (mi *ModulesInitializer) Shutdown(ctx context.Context) error {
	if mi.st.manager == nil {
		return nil
	}
	return mi.st.manager.DisableAll(ctx)
}
