package engine

import (
	"context"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/logger"
)

const (
	DefaultSteps     = 100
	DefaultPausePoll = 100 * time.Millisecond
	DefaultInterval  = 100 * time.Millisecond
)

// Transfer moves one unit of a task's download. It must return promptly
// once ctx is done. Any other error fails the task.
type Transfer func(ctx context.Context, id domain.TaskID, unit int) error

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	Steps     int
	PausePoll time.Duration
	Transfer  Transfer
	Logger    *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Steps <= 0 {
		o.Steps = DefaultSteps
	}
	if o.PausePoll <= 0 {
		o.PausePoll = DefaultPausePoll
	}
	if o.Transfer == nil {
		o.Transfer = SimulatedTransfer(TransferConfig{})
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o
}

// Batch is what one activation of the consumption loop hands to its sinks.
type Batch struct {
	Events  []domain.Event
	Tasks   map[domain.TaskID]domain.Snapshot // current state of every task named in Events
	All     []domain.Snapshot
	Overall domain.Overall
}

// Terminal returns the snapshots of tasks whose terminal status event is in the batch.
func (b Batch) Terminal() []domain.Snapshot {
	var out []domain.Snapshot
	for _, ev := range b.Events {
		if ev.Kind != domain.EventStatusChanged || !ev.Status.IsTerminal() {
			continue
		}
		if s, ok := b.Tasks[ev.TaskID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Sink receives every batch produced by a Consumer.
type Sink interface {
	Refresh(ctx context.Context, b Batch) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, b Batch) error

func (f SinkFunc) Refresh(ctx context.Context, b Batch) error {
	return f(ctx, b)
}
