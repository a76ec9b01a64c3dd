package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/datallboy/godl/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished tasks recorded in the outcome journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.History == nil {
				return withExitCode(exitInvalidConfig, errors.New("journal is disabled (store.driver is none)"))
			}

			outcomes, err := rt.History.ListOutcomes(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeHistory(app, outcomes)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of rows")
	return cmd
}

func writeHistory(app *AppContext, outcomes []domain.Outcome) error {
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(app.IO.Out, "No finished tasks recorded yet.")
		return err
	}

	w := tabwriter.NewWriter(app.IO.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTASK\tSOURCE\tSTATUS\tPROGRESS\tFINISHED")
	for _, o := range outcomes {
		status := domain.Snapshot{Status: o.Status, Reason: o.Reason}.Label()
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d%%\t%s\n",
			shortRunID(o.RunID), o.TaskID, truncate(o.Source, sourceWidth), status, o.Progress, humanize.Time(o.FinishedAt))
	}
	return w.Flush()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
