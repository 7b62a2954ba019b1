package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shiftsad/lobby/internal/bootstrap"
	errno "github.com/shiftsad/lobby/pkg/errors"
	"github.com/shiftsad/lobby/pkg/extension"
)

func newExtensionsCommand(opts *Options) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List the discovered extensions",
		Long: `Discovers the extensions under the configured roots and lists them in
registration order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter extension.Kind
			if kind != "" {
				k, err := extension.ParseKind(kind)
				if err != nil {
					return errno.ErrInvalidArgument.WithCause(err)
				}
				filter = k
			}

			bo, err := bootstrapOptions(opts, nil)
			if err != nil {
				return err
			}
			bo.Modules = nil
			b := bootstrap.New(bo)
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = b.Shutdown(cmd.Context()) }()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tID\tUNIT\tDETAIL")
			for _, d := range res.Registry.All() {
				if filter != 0 && d.Kind != filter {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Kind, d.ID, d.Unit, detail(d))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only list one kind (command, listener, config-consumer)")
	return cmd
}

func detail(d extension.Descriptor) string {
	switch d.Kind {
	case extension.KindCommand:
		var parts []string
		if len(d.Aliases) > 0 {
			parts = append(parts, "aliases="+strings.Join(d.Aliases, ","))
		}
		if d.Permission != "" {
			parts = append(parts, "permission="+d.Permission)
		}
		return strings.Join(parts, " ")
	case extension.KindListener:
		return "event=" + d.Event
	case extension.KindConsumer:
		if d.Schema != nil {
			return "schema=" + d.Schema.Name()
		}
	}
	return ""
}
