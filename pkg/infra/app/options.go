package app

import "github.com/spf13/pflag"

// CliOptions is implemented by the options struct of an App. The struct is
// also the target of the options file, so its fields carry mapstructure
// tags.
type CliOptions interface {
	// AddFlags adds flags to the flagset.
	AddFlags(fs *pflag.FlagSet)
	// Complete completes the options with defaults.
	Complete() error
	// Validate validates the options.
	Validate() error
}
