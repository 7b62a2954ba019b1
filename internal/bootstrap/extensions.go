package bootstrap

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
	"github.com/shiftsad/lobby/pkg/scanner"
)

// ScanInitializer binds the discovery options from the snapshot and
// discovers the extension descriptors.
type ScanInitializer struct {
	st        *state
	key       string
	factories map[string]extension.Factory
	schemas   *binder.Registry
	opts      []scanner.Option
}

func (si *ScanInitializer) Name() string           { return "scan" }
func (si *ScanInitializer) Dependencies() []string { return []string{"config"} }

func (si *ScanInitializer) Initialize(ctx context.Context) error {
	ds, err := scanner.Discover(ctx, si.st.snapshot, si.key, si.factories, si.schemas, si.opts...)
	if err != nil {
		return err
	}
	si.st.descriptors = ds
	logger.Infow("extensions discovered", "count", len(ds))
	return nil
}

// RegistryInitializer fills and freezes the registry and, when a host is
// configured, attaches the extensions to it.
type RegistryInitializer struct {
	st   *state
	host extension.Host
}

func (ri *RegistryInitializer) Name() string           { return "registry" }
func (ri *RegistryInitializer) Dependencies() []string { return []string{"scan"} }

func (ri *RegistryInitializer) Initialize(ctx context.Context) error {
	reg := extension.NewRegistry()
	if err := extension.RegisterAll(reg, ri.st.descriptors); err != nil {
		return err
	}
	reg.Freeze()
	ri.st.registry = reg
	logger.Infow("extension registry frozen",
		"commands", len(reg.Commands()),
		"events", len(reg.Events()),
		"consumers", len(reg.Consumers()),
	)

	if ri.host == nil {
		return nil
	}
	return extension.Activate(ctx, reg, ri.host)
}
