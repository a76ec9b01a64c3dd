package domain

import "time"

type EventKind string

const (
	EventProgress      EventKind = "progress"
	EventStatusChanged EventKind = "status"
)

// Event signals that something changed for one task. Consumers should treat
// it as a hint and read the authoritative state from the engine.
type Event struct {
	Seq      uint64     `json:"seq"`
	TaskID   TaskID     `json:"task_id"`
	Kind     EventKind  `json:"kind"`
	Progress int        `json:"progress"`
	Status   TaskStatus `json:"status"`
	Reason   string     `json:"reason,omitempty"`
	At       time.Time  `json:"at"`
}
