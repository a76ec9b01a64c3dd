package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/logger"
)

// Engine is the dispatcher: it creates tasks, spawns one worker per task and
// routes pause/resume/cancel intents to the task's control flags.
type Engine struct {
	registry *Registry
	events   *EventQueue
	opts     Options
	log      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders AddTask against Shutdown so no worker is spawned after the wait begins
	mu     sync.RWMutex
	closed bool
}

// New returns a running engine. Every added task starts immediately; there is
// no concurrency cap.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		registry: NewRegistry(),
		events:   NewEventQueue(),
		opts:     opts,
		log:      opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddTask registers a Queued task for source, starts its worker and returns
// without waiting for any progress.
func (e *Engine) AddTask(source string) (domain.TaskID, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return 0, domain.ErrInvalidSource
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return 0, domain.ErrClosed
	}

	id := e.registry.Create(source)
	s, err := e.registry.lookup(id)
	if err != nil {
		return 0, err
	}

	w := &worker{
		slot:     s,
		events:   e.events,
		steps:    e.opts.Steps,
		poll:     e.opts.PausePoll,
		transfer: e.opts.Transfer,
		log:      e.log,
		now:      time.Now,
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		w.run(e.ctx)
	}()

	e.log.Info("Added task %d: %s", id, source)
	return id, nil
}

// Pause asks a downloading task to suspend at its next checkpoint. A task
// stays Queued until its worker goroutine starts, so a Pause issued right
// after AddTask may be rejected with ErrIllegalTransition.
func (e *Engine) Pause(id domain.TaskID) error {
	return e.registry.Request(id, FlagPause, true, func(s domain.Snapshot) error {
		if s.CancelRequested || !s.Status.IsActive() {
			return &domain.TransitionError{ID: id, Op: "pause", Status: s.Status}
		}
		return nil
	})
}

// Resume clears a pause request. It is rejected unless the task is paused or
// has a pause pending.
func (e *Engine) Resume(id domain.TaskID) error {
	return e.registry.Request(id, FlagPause, false, func(s domain.Snapshot) error {
		paused := s.Status == domain.StatusPaused || (s.Status == domain.StatusDownloading && s.PauseRequested)
		if s.CancelRequested || !paused {
			return &domain.TransitionError{ID: id, Op: "resume", Status: s.Status}
		}
		return nil
	})
}

// Cancel asks a task to stop for good. Repeating it, even after the task has
// reached Canceled, is accepted and changes nothing.
func (e *Engine) Cancel(id domain.TaskID) error {
	return e.registry.Request(id, FlagCancel, true, allowCancel(id))
}

func allowCancel(id domain.TaskID) func(domain.Snapshot) error {
	return func(s domain.Snapshot) error {
		if s.Status.IsTerminal() && s.Status != domain.StatusCanceled {
			return &domain.TransitionError{ID: id, Op: "cancel", Status: s.Status}
		}
		return nil
	}
}

// DrainEvents returns every pending event without blocking.
func (e *Engine) DrainEvents() []domain.Event {
	return e.events.Drain()
}

// Ready is signaled whenever new events are pending.
func (e *Engine) Ready() <-chan struct{} {
	return e.events.Ready()
}

func (e *Engine) Snapshot(id domain.TaskID) (domain.Snapshot, error) {
	return e.registry.Get(id)
}

func (e *Engine) Snapshots() []domain.Snapshot {
	return e.registry.Snapshots()
}

// OverallProgress recomputes the aggregate from the registry on every call.
func (e *Engine) OverallProgress() domain.Overall {
	return OverallProgress(e.registry.Snapshots())
}

// Done returns a channel closed once the task's worker has exited.
func (e *Engine) Done(id domain.TaskID) (<-chan struct{}, error) {
	s, err := e.registry.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.done, nil
}

// Shutdown rejects new tasks, cancels every live task and waits for all
// workers to exit or for ctx to end.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	live := 0
	for _, s := range e.registry.Snapshots() {
		if s.Status.IsTerminal() {
			continue
		}
		if err := e.registry.Request(s.ID, FlagCancel, true, allowCancel(s.ID)); err != nil {
			// Finished between the scan and the request
			e.log.Debug("Shutdown skipped task %d: %v", s.ID, err)
			continue
		}
		live++
	}
	e.log.Info("Shutting down engine, canceling %d live task(s)", live)

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	defer e.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
