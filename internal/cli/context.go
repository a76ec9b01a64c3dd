package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/datallboy/godl/internal/app"
	"github.com/datallboy/godl/internal/infra/config"
	"github.com/datallboy/godl/internal/infra/logger"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

type AppContext struct {
	Build BuildInfo
	IO    IOStreams
	Opts  GlobalOptions
}

// bootstrap loads config and the logger and, when withStore is set, opens
// the outcome journal.
func (a *AppContext) bootstrap(ctx context.Context, withStore bool) (*app.Context, error) {
	cfg, err := config.Load(a.Opts.ConfigPath)
	if err != nil {
		return nil, withExitCode(exitInvalidConfig, err)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if a.Opts.Verbose {
		level = logger.LevelDebug
	}

	log, err := logger.New(cfg.Log.Path, level, cfg.Log.IncludeStdout)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if cfg.Log.IncludeStdout {
		// stdout belongs to the progress display
		log.SetConsole(a.IO.ErrOut)
	}

	rt := app.NewContext(cfg, log)
	if withStore {
		if err := rt.OpenStore(ctx); err != nil {
			return nil, err
		}
	}
	return rt, nil
}
