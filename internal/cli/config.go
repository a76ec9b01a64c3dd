package cli

import (
	"fmt"

	"github.com/datallboy/godl/internal/infra/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the godl configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(app))
	return cmd
}

func newConfigInitCommand(app *AppContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file populated with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.WriteDefault(path, force); err != nil {
				return withExitCode(exitInvalidConfig, err)
			}
			fmt.Fprintf(app.IO.Out, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
