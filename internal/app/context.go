package app

import (
	"context"
	"fmt"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/engine"
	"github.com/datallboy/godl/internal/infra/config"
	"github.com/datallboy/godl/internal/infra/logger"
	"github.com/datallboy/godl/internal/store"
)

// TaskEngine is the control and read boundary the outer surfaces use.
type TaskEngine interface {
	AddTask(source string) (domain.TaskID, error)
	Pause(id domain.TaskID) error
	Resume(id domain.TaskID) error
	Cancel(id domain.TaskID) error
	Snapshot(id domain.TaskID) (domain.Snapshot, error)
	Snapshots() []domain.Snapshot
	OverallProgress() domain.Overall
}

// EventFeed serves recent events to pollers that cannot drain the engine themselves.
type EventFeed interface {
	Since(after uint64, limit int) []domain.Event
}

// History reads the outcome journal.
type History interface {
	ListOutcomes(ctx context.Context, limit int) ([]domain.Outcome, error)
}

// Context holds the core environment and shared resources for godl.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Engine  TaskEngine
	Feed    EventFeed
	History History // nil when the journal is disabled

	engine  *engine.Engine
	store   store.OutcomeStore
	journal *engine.JournalSink
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}

// OpenStore connects the configured journal without starting an engine.
func (c *Context) OpenStore(ctx context.Context) error {
	s, err := store.Open(ctx, c.Config.Store)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	if s != nil {
		c.store = s
		c.History = s
	}
	return nil
}

// StartEngine builds the engine from config. The journal must be opened first
// if outcomes should be recorded.
func (c *Context) StartEngine() {
	ec := c.Config.Engine

	c.engine = engine.New(engine.Options{
		Steps:     ec.Steps,
		PausePoll: ec.PausePoll,
		Transfer: engine.SimulatedTransfer(engine.TransferConfig{
			MinDelay:    ec.MinDelay,
			MaxDelay:    ec.MaxDelay,
			FailureRate: ec.FailureRate,
			Seed:        ec.Seed,
		}),
		Logger: c.Logger.Named("engine"),
	})
	c.Engine = c.engine

	if c.store != nil {
		c.journal = engine.NewJournalSink(c.store, c.Logger.Named("journal"))
		c.Logger.Info("Journaling outcomes under run %s", c.journal.RunID())
	}
}

// NewConsumer returns a consumption loop over the running engine that feeds
// the journal (when enabled), the debug log and any extra sinks.
func (c *Context) NewConsumer(sinks ...engine.Sink) *engine.Consumer {
	all := []engine.Sink{engine.LogSink(c.Logger.Named("consumer"))}
	if c.journal != nil {
		all = append(all, c.journal)
	}
	all = append(all, sinks...)

	return engine.NewConsumer(c.engine, c.Config.Consumer.Interval, c.Logger, all...)
}

// ShutdownEngine cancels every live task and waits for the workers. Stop the
// consumer afterwards so its final drain sees the cancellations.
func (c *Context) ShutdownEngine(ctx context.Context) error {
	if c.engine == nil {
		return nil
	}
	if err := c.engine.Shutdown(ctx); err != nil {
		return fmt.Errorf("engine shutdown: %w", err)
	}
	return nil
}

// Close releases the journal.
func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("journal close: %w", err)
	}
	return nil
}
