package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/datallboy/godl/internal/api"
	"github.com/datallboy/godl/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(app *AppContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the task engine over an HTTP JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
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

			if port == "" {
				port = rt.Config.Port
			}

			rt.StartEngine()
			feed := engine.NewFeed(engine.DefaultFeedSize)
			rt.Feed = feed
			consumer := rt.NewConsumer(feed)

			srv := &http.Server{
				Addr:    net.JoinHostPort("", port),
				Handler: api.NewServer(rt),
			}

			consumerCtx, stopConsumer := context.WithCancel(context.Background())
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return consumer.Run(consumerCtx)
			})

			g.Go(func() error {
				rt.Logger.Info("Listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				defer stopConsumer()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				rt.Logger.Info("Shutting down server...")
				err := srv.Shutdown(shutdownCtx)
				return errors.Join(err, rt.ShutdownEngine(shutdownCtx))
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	return cmd
}
