package scanner

import (
	"context"

	"github.com/shiftsad/lobby/pkg/config"
	"github.com/shiftsad/lobby/pkg/config/binder"
	"github.com/shiftsad/lobby/pkg/extension"
)

// DefaultConfigKey is where Options live in the configuration.
const DefaultConfigKey = "extensions"

// Options select what to scan. They are bound from configuration so the
// scan targets are themselves configured.
type Options struct {
	Roots    []string `config:"roots,required" validate:"min=1,dive,required"`
	Manifest string   `config:"manifest"`
}

var optionsSchema = binder.MustCompile[Options]()

// BindOptions binds Options from the record at key.
func BindOptions(snap *config.Snapshot, key string) (Options, error) {
	return binder.BindAt[Options](snap, key, optionsSchema)
}

// Discover binds Options at key, loads the manifest if one is configured
// and scans the configured roots. Consumers are resolved against snap.
func Discover(ctx context.Context, snap *config.Snapshot, key string, factories map[string]extension.Factory, schemas *binder.Registry, opts ...Option) ([]extension.Descriptor, error) {
	o, err := BindOptions(snap, key)
	if err != nil {
		return nil, err
	}
	if o.Manifest != "" {
		units, err := LoadManifest(o.Manifest, factories, schemas)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithUnits(units...))
	}
	opts = append(opts, WithSnapshot(snap))
	return New(opts...).Scan(ctx, o.Roots)
}
