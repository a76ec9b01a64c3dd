package store

import (
	"database/sql"
	"time"

	"github.com/datallboy/godl/internal/domain"
)

// outcomeDBO maps to the task_outcomes table
type outcomeDBO struct {
	RunID      string         `db:"run_id"`
	TaskID     int64          `db:"task_id"`
	Source     string         `db:"source"`
	Status     string         `db:"status"`
	Reason     sql.NullString `db:"reason"`
	Progress   int            `db:"progress"`
	CreatedAt  int64          `db:"created_at"`  // unix milliseconds
	FinishedAt int64          `db:"finished_at"` // unix milliseconds
}

// Mapper: DBO to Domain Outcome
func (o *outcomeDBO) ToDomain() domain.Outcome {
	return domain.Outcome{
		RunID:      o.RunID,
		TaskID:     domain.TaskID(o.TaskID),
		Source:     o.Source,
		Status:     domain.TaskStatus(o.Status),
		Reason:     o.Reason.String,
		Progress:   o.Progress,
		CreatedAt:  time.UnixMilli(o.CreatedAt),
		FinishedAt: time.UnixMilli(o.FinishedAt),
	}
}

// Mapper: Domain Outcome to DBO
func (o *outcomeDBO) FromDomain(out domain.Outcome) {
	o.RunID = out.RunID
	o.TaskID = int64(out.TaskID)
	o.Source = out.Source
	o.Status = string(out.Status)
	o.Reason = sql.NullString{String: out.Reason, Valid: out.Reason != ""}
	o.Progress = out.Progress
	o.CreatedAt = out.CreatedAt.UnixMilli()
	o.FinishedAt = out.FinishedAt.UnixMilli()
}
