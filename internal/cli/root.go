package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute(build BuildInfo, streams IOStreams) int {
	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return exitSuccess
}

func newRootCommand(app *AppContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "godl",
		Short: "Run simulated downloads concurrently with pause, resume and cancel",
		Long: "godl runs every added download on its own worker, lets each one be paused, resumed or canceled " +
			"individually, and reports the mean progress of the active downloads.",
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	root.SetIn(app.IO.In)
	root.SetOut(app.IO.Out)
	root.SetErr(app.IO.ErrOut)

	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", os.Getenv("GODL_CONFIG"), "Path to config file")
	root.PersistentFlags().BoolVarP(&app.Opts.Verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().BoolVar(&app.Opts.NoColor, "no-color", false, "Disable color output")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(exitInvalidUsage, err)
	})

	root.AddCommand(newRunCommand(app))
	root.AddCommand(newServeCommand(app))
	root.AddCommand(newHistoryCommand(app))
	root.AddCommand(newConfigCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}
