package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/shiftsad/lobby/internal/bootstrap"
	"github.com/shiftsad/lobby/pkg/config/binder"
)

func newCheckCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the configuration and extensions, then exit",
		Long: `Runs the full startup sequence without serving players and prints a
summary. A failure names the offending layer, unit or key and exits with
the matching status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runCheck(ctx context.Context, opts *Options, out io.Writer) error {
	bo, err := bootstrapOptions(opts, logHost{})
	if err != nil {
		return err
	}
	b := bootstrap.New(bo)
	res, err := b.Run(ctx)
	if err != nil {
		fmt.Fprintf(out, "%s startup failed\n", color.Red.Sprint("✗"))
		printViolations(out, err)
		return err
	}
	defer func() { _ = b.Shutdown(context.WithoutCancel(ctx)) }()

	ok := color.Green.Sprint("✓")
	snap := res.Snapshot
	fmt.Fprintf(out, "%s configuration  revision %s, %d keys from %s\n",
		ok, snap.Revision(), snap.Len(), strings.Join(snap.Layers(), ", "))

	reg := res.Registry
	fmt.Fprintf(out, "%s extensions     %d commands, %d listeners on %d events, %d config consumers\n",
		ok, len(reg.Commands()), countListeners(res), len(reg.Events()), len(reg.Consumers()))

	mark := ok
	if !res.Modules.Ready() {
		mark = color.Yellow.Sprint("!")
	}
	fmt.Fprintf(out, "%s modules        %s\n", mark, strings.Join(res.Modules.Enabled(), ", "))
	return nil
}

// printViolations lists every failed constraint when err carries them.
func printViolations(out io.Writer, err error) {
	var be *binder.BindingError
	if !errors.As(err, &be) || len(be.Violations) == 0 {
		return
	}
	for _, path := range slices.Sorted(maps.Keys(be.Violations)) {
		for _, msg := range be.Violations[path] {
			fmt.Fprintf(out, "  %s: %s\n", path, msg)
		}
	}
}

func countListeners(res *bootstrap.Result) int {
	n := 0
	for _, e := range res.Registry.Events() {
		n += len(res.Registry.ListenersForEvent(e))
	}
	return n
}
