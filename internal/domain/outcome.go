package domain

import "time"

// Outcome is the journal record written when a task reaches a terminal status.
type Outcome struct {
	RunID      string     `json:"run_id"`
	TaskID     TaskID     `json:"task_id"`
	Source     string     `json:"source"`
	Status     TaskStatus `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	Progress   int        `json:"progress"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// NewOutcome builds the journal record for a terminal snapshot.
func NewOutcome(runID string, s Snapshot) Outcome {
	finished := s.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	return Outcome{
		RunID:      runID,
		TaskID:     s.ID,
		Source:     s.Source,
		Status:     s.Status,
		Reason:     s.Reason,
		Progress:   s.Progress,
		CreatedAt:  s.CreatedAt,
		FinishedAt: finished,
	}
}
