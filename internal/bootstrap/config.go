package bootstrap

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/config"
	cfgopts "github.com/shiftsad/lobby/pkg/options/config"
)

// ConfigInitializer loads the configuration layers into the first snapshot
// and, when asked to, prepares a watcher over the layer files.
type ConfigInitializer struct {
	st       *state
	opts     *cfgopts.Options
	defaults []config.LayerSpec
	loadOpts []config.LoadOption
}

func (ci *ConfigInitializer) Name() string           { return "config" }
func (ci *ConfigInitializer) Dependencies() []string { return []string{"logging"} }

func (ci *ConfigInitializer) Initialize(ctx context.Context) error {
	layers, err := ci.opts.Layers(ci.defaults...)
	if err != nil {
		return err
	}

	loader := config.NewLoader(ci.loadOpts...)
	snap, err := loader.Load(ctx, layers)
	if err != nil {
		return err
	}
	ci.st.snapshot = snap
	logger.Infow("configuration loaded",
		"revision", snap.Revision(),
		"layers", snap.Layers(),
	)

	if ci.opts.Watch {
		ci.st.watcher = config.NewWatcher(snap, layers,
			config.WithLoader(loader),
			config.WithDebounce(ci.opts.Debounce),
		)
	}
	return nil
}

// Shutdown stops the watcher if it was started.
func (ci *ConfigInitializer) Shutdown(context.Context) error {
	if ci.st.watcher == nil {
		return nil
	}
	return ci.st.watcher.Stop()
}
