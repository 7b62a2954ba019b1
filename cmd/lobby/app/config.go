package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shiftsad/lobby/internal/lobby"
	"github.com/shiftsad/lobby/pkg/config"
	errno "github.com/shiftsad/lobby/pkg/errors"
)

func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the layered configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump [path]",
		Short: "Print the merged configuration as YAML",
		Long: `Loads every configuration layer and prints the merged result, or only
the value at path (for example lobby.player_menu).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layers, err := opts.Config.Layers(lobby.DefaultsLayer())
			if err != nil {
				return errno.ErrInvalidArgument.WithCause(err)
			}
			snap, err := config.Load(cmd.Context(), layers)
			if err != nil {
				return err
			}

			var doc any = snap.Tree()
			if len(args) == 1 {
				v, ok := snap.Get(args[0])
				if !ok {
					return errno.ErrInvalidArgument.WithMessagef("no configuration at %q", args[0])
				}
				doc = v.Interface()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			return enc.Close()
		},
	})
	return cmd
}
