package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/logger"
)

// worker drives a single task from Queued to a terminal status. It is the
// only writer of the task's progress and status.
type worker struct {
	slot     *slot
	events   *EventQueue
	steps    int
	poll     time.Duration
	transfer Transfer
	log      *logger.Logger
	now      func() time.Time
}

func (w *worker) run(parent context.Context) {
	defer close(w.slot.done)

	// The transfer context ends as soon as cancel is requested so an
	// in-flight unit does not hold the task for its full delay.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	go func() {
		select {
		case <-w.slot.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if w.slot.cancel.Load() {
		w.finish(domain.StatusCanceled, "")
		return
	}
	w.publish(domain.StatusDownloading, "")

	for unit := 0; unit < w.steps; unit++ {
		if w.slot.cancel.Load() {
			w.finish(domain.StatusCanceled, "")
			return
		}

		if w.slot.pause.Load() && !w.waitWhilePaused(ctx) {
			w.finish(domain.StatusCanceled, "")
			return
		}

		if err := w.transferUnit(ctx, unit); err != nil {
			if w.slot.cancel.Load() || ctx.Err() != nil {
				w.finish(domain.StatusCanceled, "")
				return
			}
			w.log.Warn("task %d failed at unit %d/%d: %v", w.slot.id, unit+1, w.steps, err)
			w.finish(domain.StatusFailed, failureReason(err))
			return
		}

		// No progress may be recorded once cancel has been requested
		if w.slot.cancel.Load() {
			w.finish(domain.StatusCanceled, "")
			return
		}
		w.advance(unit + 1)
	}

	w.finish(domain.StatusCompleted, "")
}

// waitWhilePaused parks the worker until the pause flag clears. It returns
// false if cancel is requested while parked.
func (w *worker) waitWhilePaused(ctx context.Context) bool {
	w.publish(domain.StatusPaused, "")

	for w.slot.pause.Load() {
		if w.slot.cancel.Load() {
			return false
		}

		t := time.NewTimer(w.poll)
		select {
		case <-w.slot.wake:
		case <-t.C:
		case <-ctx.Done():
		}
		t.Stop()

		if w.slot.cancel.Load() || ctx.Err() != nil {
			return false
		}
	}

	w.publish(domain.StatusDownloading, "")
	return true
}

// transferUnit runs the transfer function, converting a panic into a failure
// so that one bad task never takes the process down.
func (w *worker) transferUnit(ctx context.Context, unit int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.WorkerFailure{Unit: unit, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return w.transfer(ctx, w.slot.id, unit)
}

// advance records the progress reached after completing unit units and emits
// an event only when the percentage moved. Nothing is recorded once cancel
// has been requested.
func (w *worker) advance(units int) {
	percent := units * 100 / w.steps

	w.slot.mu.Lock()
	if percent <= w.slot.progress || w.slot.cancel.Load() {
		w.slot.mu.Unlock()
		return
	}
	w.slot.progress = percent
	status := w.slot.status
	w.slot.mu.Unlock()

	w.events.Push(domain.Event{
		TaskID:   w.slot.id,
		Kind:     domain.EventProgress,
		Progress: percent,
		Status:   status,
		At:       w.now(),
	})
}

// publish moves the task to status and emits exactly one status event. It
// returns the status actually published: Completed and Failed become
// Canceled when cancel was requested before the task's lock was taken.
func (w *worker) publish(status domain.TaskStatus, reason string) domain.TaskStatus {
	now := w.now()

	w.slot.mu.Lock()
	if (status == domain.StatusCompleted || status == domain.StatusFailed) && w.slot.cancel.Load() {
		status, reason = domain.StatusCanceled, ""
	}
	prev := w.slot.status
	w.slot.status = status
	w.slot.reason = reason
	if status == domain.StatusDownloading && w.slot.startedAt.IsZero() {
		w.slot.startedAt = now
	}
	if status.IsTerminal() {
		w.slot.finishedAt = now
	}
	progress := w.slot.progress
	w.slot.mu.Unlock()

	w.log.Debug("task %d: %s -> %s", w.slot.id, prev, status)

	w.events.Push(domain.Event{
		TaskID:   w.slot.id,
		Kind:     domain.EventStatusChanged,
		Progress: progress,
		Status:   status,
		Reason:   reason,
		At:       now,
	})
	return status
}

func (w *worker) finish(status domain.TaskStatus, reason string) {
	status = w.publish(status, reason)
	w.log.Info("task %d %s (%s)", w.slot.id, status, w.slot.source)
}

func failureReason(err error) string {
	var wf *domain.WorkerFailure
	if errors.As(err, &wf) {
		return wf.Reason
	}
	return err.Error()
}
