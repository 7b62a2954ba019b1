package bootstrap

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
	"github.com/kart-io/version"

	logopts "github.com/shiftsad/lobby/pkg/options/logger"
)

// LoggingInitializer installs the global logger.
type LoggingInitializer struct {
	opts    *logopts.Options
	appName string
}

// NewLoggingInitializer creates a new LoggingInitializer. With nil options
// the current global logger is kept.
func NewLoggingInitializer(opts *logopts.Options, appName string) *LoggingInitializer {
	return &LoggingInitializer{opts: opts, appName: appName}
}

func (li *LoggingInitializer) Name() string { return "logging" }

// Dependencies returns nil. Logging runs first.
func (li *LoggingInitializer) Dependencies() []string { return nil }

func (li *LoggingInitializer) Initialize(context.Context) error {
	if li.opts != nil {
		if err := li.opts.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Infow("Starting lobby server",
		"app", li.appName,
		"version", version.Get().GitVersion,
	)
	return nil
}
