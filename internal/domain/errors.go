package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an operation referenced an unknown task id
var ErrNotFound = errors.New("task not found")

// ErrIllegalTransition indicates a control request the task's status does not permit
var ErrIllegalTransition = errors.New("illegal transition")

// ErrInvalidSource indicates an empty or blank download source
var ErrInvalidSource = errors.New("source is required")

// ErrClosed indicates the engine has been shut down
var ErrClosed = errors.New("engine closed")

// TransitionError describes a rejected control request.
type TransitionError struct {
	ID     TaskID
	Op     string
	Status TaskStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %d while %s", e.Op, e.ID, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// WorkerFailure is an unexpected fault during a simulated transfer. It never
// leaves the worker; it becomes the reason of a failed status.
type WorkerFailure struct {
	Unit   int
	Reason string
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("unit %d: %s", e.Unit, e.Reason)
}
