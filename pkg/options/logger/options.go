// Package logger provides logger configuration options for the lobby
// process.
package logger

import (
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"github.com/kart-io/logger/option"
	"github.com/kart-io/version"
	"github.com/spf13/pflag"
)

// Options wraps option.LogOption. Logs go to stderr by default so command
// output on stdout stays machine readable.
type Options struct {
	*option.LogOption `mapstructure:",squash"`

	// Service is reported as service.name on every entry.
	Service string `json:"service" mapstructure:"service"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	opt := option.DefaultLogOption()
	opt.Format = "console"
	opt.OutputPaths = []string{"stderr"}
	return &Options{LogOption: opt, Service: "lobby"}
}

// AddFlags adds flags for logger options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Engine, "log.engine", o.Engine, "Logging engine (zap|slog)")
	fs.StringVar(&o.Level, "log.level", o.Level, "Log level (DEBUG|INFO|WARN|ERROR|FATAL)")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log format (json|console)")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Output paths for logs")
	fs.BoolVar(&o.Development, "log.development", o.Development, "Enable development mode")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Disable caller detection")
	fs.BoolVar(&o.DisableStacktrace, "log.disable-stacktrace", o.DisableStacktrace, "Disable stacktrace capture")

	if o.Rotation == nil {
		o.Rotation = &option.RotationOption{}
	}
	fs.IntVar(&o.Rotation.MaxSize, "log.rotation.max-size", o.Rotation.MaxSize, "Maximum size in MB of a log file before rotation")
	fs.IntVar(&o.Rotation.MaxBackups, "log.rotation.max-backups", o.Rotation.MaxBackups, "Maximum number of rotated log files to retain")
}

// Complete normalizes the level and stamps the service fields.
func (o *Options) Complete() error {
	o.Level = strings.ToUpper(strings.TrimSpace(o.Level))
	if o.Level == "" {
		o.Level = "INFO"
	}
	o.AddInitialField("service.name", o.Service)
	o.AddInitialField("service.version", version.Get().GitVersion)
	return nil
}

// Validate validates the logger options.
func (o *Options) Validate() error {
	if o.LogOption == nil {
		return fmt.Errorf("log options are not initialized")
	}
	return o.LogOption.Validate()
}

// CreateLogger creates a new logger instance based on the options.
func (o *Options) CreateLogger() (core.Logger, error) {
	return logger.New(o.LogOption)
}

// Init initializes the global logger with the options.
func (o *Options) Init() error {
	log, err := o.CreateLogger()
	if err != nil {
		return err
	}
	logger.SetGlobal(log)
	return nil
}
