// Package app provides application bootstrapping with Cobra, Viper, and Pflag.
//
// Options are read in this order, later sources winning: defaults, the
// options file, environment variables, command-line flags.
//
//	a := app.NewApp(
//	    app.WithName("lobby"),
//	    app.WithOptions(opts),
//	    app.WithRunFunc(run),
//	    app.WithCommands(checkCmd, dumpCmd),
//	)
//	a.Run()
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errno "github.com/shiftsad/lobby/pkg/errors"
)

// App is the main application structure.
type App struct {
	name        string
	shortDesc   string
	description string
	options     CliOptions
	runFunc     RunFunc
	commands    []*cobra.Command
	cmd         *cobra.Command
	v           *viper.Viper
	noVersion   bool
	noConfig    bool
}

// RunFunc is the application's run function. ctx is canceled on SIGINT or
// SIGTERM.
type RunFunc func(ctx context.Context, args []string) error

// Option configures an App.
type Option func(*App)

// WithName sets the application name.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithShortDescription sets the short description.
func WithShortDescription(desc string) Option {
	return func(a *App) {
		a.shortDesc = desc
	}
}

// WithDescription sets the long description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions sets the CLI options. Their flags are shared by every
// subcommand.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the run function of the root command.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithCommands adds subcommands. Options are loaded before any of them runs.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(a *App) {
		a.commands = append(a.commands, cmds...)
	}
}

// WithNoVersion disables version flag.
func WithNoVersion() Option {
	return func(a *App) {
		a.noVersion = true
	}
}

// WithNoConfig disables options file loading.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// NewApp creates a new application instance.
func NewApp(opts ...Option) *App {
	a := &App{
		name: filepath.Base(os.Args[0]),
		v:    viper.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.buildCommand()
	return a
}

// buildCommand creates the cobra command tree.
func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:               a.name,
		Short:             a.shortDesc,
		Long:              a.description,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}
	if a.runFunc != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			return a.runFunc(c.Context(), args)
		}
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.PersistentFlags().SortFlags = true

	a.addGlobalFlags(cmd)
	if a.options != nil {
		a.options.AddFlags(cmd.PersistentFlags())
	}
	for _, sub := range a.commands {
		cmd.AddCommand(sub)
	}

	a.cmd = cmd
}

// addGlobalFlags adds global flags to the command.
func (a *App) addGlobalFlags(cmd *cobra.Command) {
	if !a.noConfig {
		cmd.PersistentFlags().StringP("config", "c", "", "Path to the process options file")
	}
	if !a.noVersion {
		version.AddFlags(cmd.PersistentFlags())
	}
}

// prepare runs before every command: version flag, options file,
// environment, then Complete and Validate.
func (a *App) prepare(cmd *cobra.Command, _ []string) error {
	if !a.noVersion {
		version.PrintAndExitIfRequested()
	}

	if !a.noConfig {
		if err := a.loadConfig(cmd); err != nil {
			return err
		}
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return errno.ErrInvalidArgument.WithCause(err)
		}
		if err := a.options.Validate(); err != nil {
			return errno.ErrInvalidArgument.WithCause(err)
		}
	}
	return nil
}

// loadConfig loads options from file and environment, keeping flags that
// were set explicitly.
func (a *App) loadConfig(cmd *cobra.Command) error {
	v := a.v
	configFile, _ := cmd.Flags().GetString("config")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(a.name + "-options")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+a.name))
		}
		v.AddConfigPath("/etc/" + a.name)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errno.ErrMissingSource.WithCause(fmt.Errorf("failed to read options file: %w", err))
		}
	}

	expandEnvVars(v)

	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(a.name, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if a.options == nil {
		return nil
	}

	changed := make(map[string]string)
	changedSlices := make(map[string][]string)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			changedSlices[f.Name] = slices.Clone(sv.GetSlice())
			return
		}
		changed[f.Name] = f.Value.String()
	})

	if err := v.Unmarshal(a.options); err != nil {
		return errno.ErrParseFailure.WithCause(fmt.Errorf("failed to unmarshal options: %w", err))
	}

	for name, val := range changed {
		if err := cmd.Flags().Set(name, val); err != nil {
			return fmt.Errorf("failed to re-apply flag %s: %w", name, err)
		}
	}
	for name, vals := range changedSlices {
		sv := cmd.Flags().Lookup(name).Value.(pflag.SliceValue)
		if err := sv.Replace(vals); err != nil {
			return fmt.Errorf("failed to re-apply flag %s: %w", name, err)
		}
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR} and $VAR in string values. Unset variables
// are left as written.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		expanded := envPattern.ReplaceAllStringFunc(strVal, func(match string) string {
			varName := strings.TrimPrefix(match, "$")
			varName = strings.TrimSuffix(strings.TrimPrefix(varName, "{"), "}")
			if envVal, ok := os.LookupEnv(varName); ok {
				return envVal
			}
			return match
		})
		if expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// Execute runs the command tree with args and returns the first error.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.cmd.SetArgs(args)
	return a.cmd.ExecuteContext(ctx)
}

// Run executes the application with the process arguments and exits with
// the status derived from the error.
func (a *App) Run() {
	ctx, stop := signalContext()
	err := a.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.Red.Sprint("Error:"), err)
		os.Exit(errno.ExitCode(err))
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM. A second
// signal exits immediately.
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
			return
		}
		<-c
		os.Exit(errno.ExitFailure)
	}()
	return ctx, func() {
		signal.Stop(c)
		cancel()
	}
}

// Command returns the cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Viper returns the options source of the application.
func (a *App) Viper() *viper.Viper {
	return a.v
}
