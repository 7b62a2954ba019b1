package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kart-io/logger"
)

// LoadOption configures a Loader.
type LoadOption func(*Loader)

// WithLookupEnv replaces os.LookupEnv for ${VAR} expansion.
func WithLookupEnv(fn func(string) (string, bool)) LoadOption {
	return func(l *Loader) { l.lookupEnv = fn }
}

// WithEnviron replaces os.Environ for env layers.
func WithEnviron(fn func() []string) LoadOption {
	return func(l *Loader) { l.environ = fn }
}

// WithoutExpansion disables ${VAR} expansion of string values.
func WithoutExpansion() LoadOption {
	return func(l *Loader) { l.expand = false }
}

// Loader reads layer lists into snapshots. It holds no state between
// loads; every call re-reads every layer.
type Loader struct {
	lookupEnv func(string) (string, bool)
	environ   func() []string
	expand    bool
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoadOption) *Loader {
	l := &Loader{
		lookupEnv: os.LookupEnv,
		environ:   os.Environ,
		expand:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads layers with a default Loader.
func Load(ctx context.Context, layers []LayerSpec, opts ...LoadOption) (*Snapshot, error) {
	return NewLoader(opts...).Load(ctx, layers)
}

// Load reads every layer in order and merges them into a new snapshot.
// Missing optional layers are skipped. Any failure aborts the load.
func (l *Loader) Load(ctx context.Context, layers []LayerSpec) (*Snapshot, error) {
	trees := make([]map[string]any, 0, len(layers))
	names := make([]string, 0, len(layers))

	for i, layer := range layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := layer.DisplayName()
		if err := layer.validate(); err != nil {
			return nil, fmt.Errorf("config: layer %d (%s): %w", i, name, err)
		}

		tree, found, err := l.readLayer(layer)
		if err != nil {
			return nil, err
		}
		if !found {
			if layer.Required {
				return nil, &LoadError{Kind: MissingSource, Layer: name}
			}
			logger.Debugw("skipping missing optional config layer", "layer", name)
			continue
		}

		logger.Debugw("read config layer", "layer", name, "backend", layer.Backend.String())
		trees = append(trees, tree)
		names = append(names, name)
	}

	snap := newSnapshot(Merge(trees...), names)
	logger.Debugw("configuration loaded",
		"revision", snap.Revision(),
		"layers", names,
		"keys", snap.Len(),
	)
	return snap, nil
}

func (l *Loader) readLayer(layer LayerSpec) (map[string]any, bool, error) {
	name := layer.DisplayName()

	if layer.Backend == BackendEnv {
		tree, err := decodeEnviron(l.environ(), layer.EnvPrefix)
		if err != nil {
			return nil, false, &LoadError{Kind: ParseFailure, Layer: name, Cause: err}
		}
		return tree, len(tree) > 0, nil
	}

	data, found, err := l.readSource(layer)
	if err != nil {
		return nil, false, &LoadError{Kind: MissingSource, Layer: name, Cause: err}
	}
	if !found {
		return nil, false, nil
	}

	var tree map[string]any
	if layer.Backend == BackendKeyValue {
		var expand func(string) string
		if l.expand {
			expand = func(s string) string { return expandString(s, l.lookupEnv) }
		}
		tree, err = decodeKeyValue(data, expand)
	} else {
		tree, err = decodeDocument(data, layer.format())
		if err == nil && l.expand {
			expandTree(tree, l.lookupEnv)
		}
	}
	if err != nil {
		return nil, false, &LoadError{Kind: ParseFailure, Layer: name, Cause: err}
	}

	if layer.Backend == BackendDocument {
		if err := l.validateSchema(layer, tree); err != nil {
			return nil, false, &LoadError{Kind: ParseFailure, Layer: name, Cause: err}
		}
	}
	return tree, true, nil
}

func (l *Loader) validateSchema(layer LayerSpec, tree map[string]any) error {
	src := layer.Schema
	if len(src) == 0 && layer.SchemaPath != "" {
		var err error
		if src, err = os.ReadFile(layer.SchemaPath); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	if len(src) == 0 {
		return nil
	}

	schema, err := compileSchema(src)
	if err != nil {
		return err
	}
	if err := schema.Validate(tree); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}

// readSource returns the raw bytes of a file layer. found is false when
// neither the file nor an embedded default exist.
func (l *Loader) readSource(layer LayerSpec) ([]byte, bool, error) {
	if layer.Path != "" {
		data, err := os.ReadFile(layer.Path)
		if err == nil {
			return data, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		if layer.Embedded == nil {
			return nil, false, nil
		}
	}

	data, err := fs.ReadFile(layer.Embedded, layer.embeddedPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if layer.Materialize {
		if err := materialize(layer.Path, data); err != nil {
			logger.Warnw("failed to materialize default configuration",
				"layer", layer.DisplayName(), "path", layer.Path, "error", err)
		} else {
			logger.Infow("materialized default configuration",
				"layer", layer.DisplayName(), "path", layer.Path)
		}
	}
	return data, true, nil
}

func materialize(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
