package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/engine"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newRunCommand(app *AppContext) *cobra.Command {
	var (
		interactive bool
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "run [source...]",
		Short: "Download sources concurrently and show progress until all finish",
		Long: "run starts one worker per source immediately and redraws every task and the overall progress on each refresh.\n" +
			"With --interactive, control lines are read from stdin: add <source>, pause <id>, resume <id>, cancel <id>, quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !interactive {
				return withExitCode(exitInvalidUsage, errors.New("at least one source is required (or use --interactive)"))
			}
			return runDownloads(cmd.Context(), app, args, interactive, plain)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read control commands from stdin until quit or EOF")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print one line per status change instead of redrawing")
	return cmd
}

func runDownloads(parent context.Context, app *AppContext, sources []string, interactive, plain bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.StartEngine()

	var added int
	for _, src := range sources {
		id, err := rt.Engine.AddTask(src)
		if err != nil {
			fmt.Fprintf(app.IO.ErrOut, "WARN: skipping %q: %v\n", src, err)
			continue
		}
		rt.Logger.Debug("Queued %s as task %d", src, id)
		added++
	}
	if added == 0 && !interactive {
		return withExitCode(exitInvalidUsage, errors.New("no valid sources"))
	}

	// Non-interactive runs end once every task is terminal
	finished := make(chan struct{})
	var finishOnce sync.Once
	watch := engine.SinkFunc(func(_ context.Context, b engine.Batch) error {
		if !interactive && allTerminal(b.All) {
			finishOnce.Do(func() { close(finished) })
		}
		return nil
	})

	renderer := NewRenderer(app.IO.Out, plain, !app.Opts.NoColor)
	consumer := rt.NewConsumer(renderer, watch)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Run(consumerCtx)
	}()

	quit := make(chan struct{})
	if interactive {
		go readControls(ctx, app.IO.In, app.IO.ErrOut, rt.Engine, quit)
	}

	interrupted := false
	select {
	case <-finished:
	case <-quit:
	case <-ctx.Done():
		interrupted = true
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := rt.ShutdownEngine(shutdownCtx)

	stopConsumer()
	if err := <-consumerDone; err != nil {
		rt.Logger.Error("Consumer stopped with error: %v", err)
	}

	if err := renderer.Summary(rt.Engine.Snapshots()); err != nil {
		return err
	}
	if shutdownErr != nil {
		return shutdownErr
	}
	if interrupted {
		return withExitCode(exitInterrupted, errors.New("interrupted"))
	}
	return nil
}

func allTerminal(snaps []domain.Snapshot) bool {
	if len(snaps) == 0 {
		return false
	}
	for _, s := range snaps {
		if !s.Status.IsTerminal() {
			return false
		}
	}
	return true
}
