// Package module runs the lifecycle of server modules: ordered enabling by
// dependency, reverse-order disabling and config reloads.
package module

import (
	"context"

	"github.com/shiftsad/lobby/pkg/config"
)

// Module is a unit of server functionality with a lifecycle.
type Module interface {
	Node
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
}

// Reloader is implemented by modules that react to configuration changes.
type Reloader interface {
	Reload(ctx context.Context, snap *config.Snapshot) error
}

// Readiness is implemented by modules that need time before serving.
type Readiness interface {
	Ready() bool
}
