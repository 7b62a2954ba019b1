package app

import (
	"fmt"

	"github.com/spf13/pflag"

	cfgopts "github.com/shiftsad/lobby/pkg/options/config"
	logopts "github.com/shiftsad/lobby/pkg/options/logger"
	"github.com/shiftsad/lobby/pkg/scanner"
)

// Options contains all lobby process options.
type Options struct {
	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Config selects the configuration layers.
	Config *cfgopts.Options `json:"config" mapstructure:"config"`

	// ExtensionsKey is the record holding the discovery options.
	ExtensionsKey string `json:"extensions-key" mapstructure:"extensions-key"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Log:           logopts.NewOptions(),
		Config:        cfgopts.NewOptions(),
		ExtensionsKey: scanner.DefaultConfigKey,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.Config.AddFlags(fs)
	fs.StringVar(&o.ExtensionsKey, "extensions-key", o.ExtensionsKey, "Configuration record holding the extension discovery options")
}

// Complete completes the options.
func (o *Options) Complete() error {
	if err := o.Log.Complete(); err != nil {
		return err
	}
	return o.Config.Complete()
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.ExtensionsKey == "" {
		return fmt.Errorf("--extensions-key must not be empty")
	}
	return nil
}
