// Package app provides the lobby server application.
package app

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/internal/bootstrap"
	"github.com/shiftsad/lobby/internal/lobby"
	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	errno "github.com/shiftsad/lobby/pkg/errors"
	"github.com/shiftsad/lobby/pkg/extension"
	"github.com/shiftsad/lobby/pkg/infra/app"
	"github.com/shiftsad/lobby/pkg/module"
	"github.com/shiftsad/lobby/pkg/scanner"
)

const (
	appName        = "lobby"
	appDescription = `Lobby Server

Runs the lobby: layered configuration, extension discovery and the
lobby module.

Examples:
  # Start with the bundled defaults (written to ./lobby.yaml)
  lobby

  # Add an override layer and reload it on change
  lobby --config.files=overrides.properties --config.watch

  # Check the configuration and extensions without starting
  lobby check

  # Print the merged configuration
  lobby config dump lobby.spawn

Configuration:
  Domain configuration is read from these layers, later ones winning:
  - the bundled lobby.yaml in --config.data-dir
  - each --config.files entry, in order
  - environment variables (prefix: LOBBY_, "__" separates keys)

  Process options come from flags, LOBBY_ environment variables and the
  options file (-c, or lobby-options.yaml).`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("Lobby server"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func(ctx context.Context, _ []string) error {
			bo, err := bootstrapOptions(opts, logHost{})
			if err != nil {
				return err
			}
			return bootstrap.Run(ctx, bo)
		}),
		app.WithCommands(
			newCheckCommand(opts),
			newConfigCommand(opts),
			newExtensionsCommand(opts),
		),
	)
}

// bootstrapOptions assembles the startup sequence of the lobby.
func bootstrapOptions(opts *Options, host extension.Host) (*bootstrap.Options, error) {
	schemas := binder.NewRegistry()
	if err := lobby.RegisterSchemas(schemas); err != nil {
		return nil, errno.ErrInvalidDeclaration.WithCause(err)
	}

	return &bootstrap.Options{
		AppName:       appName,
		LogOpts:       opts.Log,
		ConfigOpts:    opts.Config,
		Defaults:      []config.LayerSpec{lobby.DefaultsLayer()},
		ExtensionsKey: opts.ExtensionsKey,
		Factories:     factories(scanner.Default()),
		Schemas:       schemas,
		Host:          host,
		Modules:       []module.Module{lobby.NewModule()},
	}, nil
}

// factories exposes every declared unit to manifests under its own name.
func factories(c *scanner.Catalog) map[string]extension.Factory {
	out := make(map[string]extension.Factory, c.Len())
	for _, u := range c.Units() {
		if u.Factory != nil {
			out[u.Name] = u.Factory
		}
	}
	return out
}

// logHost stands in for a game server. It only records what would be
// attached.
type logHost struct{}

func (logHost) RegisterCommand(alias string, _ extension.CommandHandler) error {
	logger.Debugw("command attached", "alias", alias)
	return nil
}

func (logHost) Subscribe(event string, _ extension.ListenerHandler) error {
	logger.Debugw("listener attached", "event", event)
	return nil
}
