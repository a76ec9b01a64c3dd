package domain

import (
	"strconv"
	"time"
)

// TaskID identifies a task for the lifetime of an engine. IDs start at 1 and
// are never reused.
type TaskID uint64

func (id TaskID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseTaskID parses the decimal form produced by TaskID.String.
func ParseTaskID(s string) (TaskID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrNotFound
	}
	return TaskID(n), nil
}

type TaskStatus string

const (
	StatusQueued      TaskStatus = "queued"
	StatusDownloading TaskStatus = "downloading"
	StatusPaused      TaskStatus = "paused"
	StatusCanceled    TaskStatus = "canceled"
	StatusCompleted   TaskStatus = "completed"
	StatusFailed      TaskStatus = "failed"
)

func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition can follow s.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusCompleted || s == StatusFailed
}

// IsActive reports whether a task in status s counts toward overall progress.
func (s TaskStatus) IsActive() bool {
	return s == StatusDownloading || s == StatusPaused
}

// Snapshot is a consistent point-in-time copy of one task.
type Snapshot struct {
	ID       TaskID     `json:"id"`
	Source   string     `json:"source"`
	Progress int        `json:"progress"`
	Status   TaskStatus `json:"status"`
	Reason   string     `json:"reason,omitempty"` // set only for failed tasks

	PauseRequested  bool `json:"pause_requested"`
	CancelRequested bool `json:"cancel_requested"`

	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Label is the status text shown to a user, including the failure reason.
func (s Snapshot) Label() string {
	if s.Status == StatusFailed && s.Reason != "" {
		return "failed: " + s.Reason
	}
	return string(s.Status)
}

// Overall is the aggregate progress across active tasks.
type Overall struct {
	Mean   float64 `json:"mean"`
	Active int     `json:"active"`
}
