// Package bootstrap runs the startup sequence of the lobby server:
// logging, configuration, extension discovery, the registry and modules.
package bootstrap

import "context"

// Initializer sets up one subsystem.
type Initializer interface {
	// Name identifies the initializer in logs and dependency lists.
	Name() string

	// Dependencies names the initializers that must run first.
	Dependencies() []string

	// Initialize performs the initialization logic.
	Initialize(ctx context.Context) error
}

// Shutdowner is implemented by initializers that own resources.
type Shutdowner interface {
	// Shutdown releases the resources. The context may carry a deadline.
	Shutdown(ctx context.Context) error
}
