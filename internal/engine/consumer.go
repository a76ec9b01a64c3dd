package engine

import (
	"context"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/logger"
)

// Source is the read side of the engine that a consumption loop needs.
type Source interface {
	DrainEvents() []domain.Event
	Snapshots() []domain.Snapshot
}

// Consumer is the periodic consumption loop. Each activation drains the
// pending events, re-reads task state and hands the result to every sink.
// It runs on its own goroutine and never executes worker logic.
type Consumer struct {
	src      Source
	interval time.Duration
	sinks    []Sink
	log      *logger.Logger
}

func NewConsumer(src Source, interval time.Duration, log *logger.Logger, sinks ...Sink) *Consumer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Consumer{src: src, interval: interval, sinks: sinks, log: log}
}

// Run activates every interval until ctx ends, then performs a final
// activation so no event is left behind.
func (c *Consumer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Activate(ctx)
		case <-ctx.Done():
			c.Activate(context.WithoutCancel(ctx))
			return nil
		}
	}
}

// Activate performs one drain cycle. Zero, one or many events are all fine.
func (c *Consumer) Activate(ctx context.Context) Batch {
	events := c.src.DrainEvents()
	all := c.src.Snapshots()

	b := Batch{
		Events:  events,
		Tasks:   make(map[domain.TaskID]domain.Snapshot, len(events)),
		All:     all,
		Overall: OverallProgress(all),
	}

	byID := make(map[domain.TaskID]domain.Snapshot, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}
	for _, ev := range events {
		if s, ok := byID[ev.TaskID]; ok {
			b.Tasks[ev.TaskID] = s
		}
	}

	for _, sink := range c.sinks {
		if err := sink.Refresh(ctx, b); err != nil {
			c.log.Error("Sink refresh failed: %v", err)
		}
	}
	return b
}

// LogSink writes a debug line for every non-empty batch.
func LogSink(log *logger.Logger) Sink {
	return SinkFunc(func(_ context.Context, b Batch) error {
		if len(b.Events) == 0 {
			return nil
		}
		log.Debug("Drained %d event(s), %d active, overall %.1f%%", len(b.Events), b.Overall.Active, b.Overall.Mean)
		return nil
	})
}
