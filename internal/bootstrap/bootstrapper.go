package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
	"github.com/shiftsad/lobby/pkg/module"
	cfgopts "github.com/shiftsad/lobby/pkg/options/config"
	logopts "github.com/shiftsad/lobby/pkg/options/logger"
	"github.com/shiftsad/lobby/pkg/scanner"
)

// Options contains everything the startup sequence needs.
type Options struct {
	AppName string

	// LogOpts installs the global logger. Nil keeps the current one.
	LogOpts    *logopts.Options
	ConfigOpts *cfgopts.Options
	// Defaults are the bundled layers merged below ConfigOpts.Files.
	Defaults []config.LayerSpec
	// LoadOptions are passed to the configuration loader.
	LoadOptions []config.LoadOption

	// ExtensionsKey is the record holding the discovery options.
	ExtensionsKey string
	// Factories and Schemas resolve manifest references.
	Factories map[string]extension.Factory
	Schemas   *binder.Registry
	// ScanOptions are passed to scanner.Discover.
	ScanOptions []scanner.Option

	// Host receives the activated extensions. Nil leaves them unattached.
	Host    extension.Host
	Modules []module.Module
}

// Result is what a successful startup produced.
type Result struct {
	Snapshot *config.Snapshot
	Registry *extension.Registry
	Modules  *module.Manager
	// Watcher is set when configuration watching was requested. It is not
	// started yet.
	Watcher *config.Watcher
}

// state is shared by the initializers of one run.
type state struct {
	snapshot    *config.Snapshot
	watcher     *config.Watcher
	descriptors []extension.Descriptor
	registry    *extension.Registry
	manager     *module.Manager
}

// Bootstrapper composes the initializers of the lobby server.
type Bootstrapper struct {
	st           *state
	initializers []Initializer
	done         []Initializer
}

// New creates a Bootstrapper with all initializers configured.
func New(opts *Options) *Bootstrapper {
	st := &state{}
	if opts.ConfigOpts == nil {
		opts.ConfigOpts = cfgopts.NewOptions()
	}
	key := opts.ExtensionsKey
	if key == "" {
		key = scanner.DefaultConfigKey
	}

	return &Bootstrapper{
		st: st,
		initializers: []Initializer{
			NewLoggingInitializer(opts.LogOpts, opts.AppName),
			&ConfigInitializer{st: st, opts: opts.ConfigOpts, defaults: opts.Defaults, loadOpts: opts.LoadOptions},
			&ScanInitializer{st: st, key: key, factories: opts.Factories, schemas: opts.Schemas, opts: opts.ScanOptions},
			&RegistryInitializer{st: st, host: opts.Host},
			&ModulesInitializer{st: st, modules: opts.Modules},
		},
	}
}

// Run runs every initializer after its dependencies. On failure the
// initializers that already ran are shut down.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	ordered, err := ResolveDependencies(b.initializers)
	if err != nil {
		return nil, err
	}

	for _, init := range ordered {
		if err := b.runInitializer(ctx, init); err != nil {
			if serr := b.Shutdown(ctx); serr != nil {
				err = errors.Join(err, serr)
			}
			return nil, err
		}
	}

	return &Result{
		Snapshot: b.st.snapshot,
		Registry: b.st.registry,
		Modules:  b.st.manager,
		Watcher:  b.st.watcher,
	}, nil
}

// runInitializer runs a single initializer with logging. Initializers with
// resources are remembered for Shutdown even when they fail midway.
func (b *Bootstrapper) runInitializer(ctx context.Context, init Initializer) error {
	logger.Debugw("initializing", "initializer", init.Name())
	b.done = append(b.done, init)
	if err := init.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", init.Name(), err)
	}
	return nil
}

// Shutdown releases resources in reverse order of initialization.
func (b *Bootstrapper) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(b.done) - 1; i >= 0; i-- {
		s, ok := b.done[i].(Shutdowner)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			logger.Errorw("error during shutdown", "initializer", b.done[i].Name(), "error", err)
			errs = append(errs, err)
		}
	}
	b.done = nil
	return errors.Join(errs...)
}
