// Package config provides the options that select configuration layers.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/shiftsad/lobby/pkg/config"
)

// Options name the configuration layers of the process.
//
// Each entry of Files is "[backend:]path[?]". The backend is "doc" or "kv"
// and defaults from the extension (.properties, .env and .kv files are
// key/value). A trailing "?" marks the layer optional. Entries are merged in
// order after the bundled defaults and before the environment.
type Options struct {
	Files     []string      `json:"files" mapstructure:"files"`
	Schema    string        `json:"schema" mapstructure:"schema"`
	EnvPrefix string        `json:"env-prefix" mapstructure:"env-prefix"`
	DataDir   string        `json:"data-dir" mapstructure:"data-dir"`
	Watch     bool          `json:"watch" mapstructure:"watch"`
	Debounce  time.Duration `json:"debounce" mapstructure:"debounce"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		EnvPrefix: "LOBBY_",
		DataDir:   ".",
		Debounce:  config.DefaultDebounce,
	}
}

// AddFlags adds flags for config options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.Files, "config.files", o.Files, "Configuration layers in precedence order ([doc:|kv:]path[?])")
	fs.StringVar(&o.Schema, "config.schema", o.Schema, "JSON schema every document layer must satisfy")
	fs.StringVar(&o.EnvPrefix, "config.env-prefix", o.EnvPrefix, "Prefix of environment overrides, empty disables them")
	fs.StringVar(&o.DataDir, "config.data-dir", o.DataDir, "Directory bundled defaults are written to on first start")
	fs.BoolVar(&o.Watch, "config.watch", o.Watch, "Reload configuration when a layer file changes")
	fs.DurationVar(&o.Debounce, "config.debounce", o.Debounce, "Quiet period before a changed layer is reloaded")
}

// Complete completes the options with defaults.
func (o *Options) Complete() error {
	if o.DataDir == "" {
		o.DataDir = "."
	}
	if o.Debounce <= 0 {
		o.Debounce = config.DefaultDebounce
	}
	return nil
}

// Validate validates the config options.
func (o *Options) Validate() error {
	for _, f := range o.Files {
		if _, err := ParseLayer(f); err != nil {
			return err
		}
	}
	return nil
}

// Layers returns the layer list: defaults, then Files, then the
// environment. Defaults with a Path are resolved against DataDir.
func (o *Options) Layers(defaults ...config.LayerSpec) ([]config.LayerSpec, error) {
	layers := make([]config.LayerSpec, 0, len(defaults)+len(o.Files)+1)
	for _, d := range defaults {
		if d.Path != "" && !filepath.IsAbs(d.Path) {
			d.Path = filepath.Join(o.DataDir, d.Path)
		}
		layers = append(layers, d)
	}
	for _, f := range o.Files {
		l, err := ParseLayer(f)
		if err != nil {
			return nil, err
		}
		if l.Backend == config.BackendDocument && o.Schema != "" {
			l.SchemaPath = o.Schema
		}
		layers = append(layers, l)
	}
	if o.EnvPrefix != "" {
		layers = append(layers, config.LayerSpec{Backend: config.BackendEnv, EnvPrefix: o.EnvPrefix})
	}
	return layers, nil
}

// ParseLayer parses one "[backend:]path[?]" entry.
func ParseLayer(entry string) (config.LayerSpec, error) {
	s := strings.TrimSpace(entry)
	l := config.LayerSpec{Required: true}
	if strings.HasSuffix(s, "?") {
		l.Required = false
		s = strings.TrimSuffix(s, "?")
	}

	if backend, path, ok := strings.Cut(s, ":"); ok && !isDrive(backend) {
		b, err := config.ParseBackend(backend)
		if err != nil {
			return l, err
		}
		if b == config.BackendEnv {
			return l, fmt.Errorf("config layer %q: env layers are set with --config.env-prefix", entry)
		}
		l.Backend = b
		s = path
	} else {
		switch strings.ToLower(filepath.Ext(s)) {
		case ".properties", ".env", ".kv":
			l.Backend = config.BackendKeyValue
		}
	}

	if s == "" {
		return l, fmt.Errorf("config layer %q has no path", entry)
	}
	l.Path = s
	return l, nil
}

// isDrive reports whether a prefix before ':' is a Windows drive letter.
func isDrive(s string) bool {
	return len(s) == 1 && (s[0] >= 'a' && s[0] <= 'z' || s[0] >= 'A' && s[0] <= 'Z')
}
