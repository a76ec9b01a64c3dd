package store

import (
	"context"
	"fmt"

	"github.com/datallboy/godl/internal/domain"
)

const defaultListLimit = 50

func (s *SQLiteStore) SaveOutcome(ctx context.Context, o domain.Outcome) error {
	var dbo outcomeDBO
	dbo.FromDomain(o)

	query := `INSERT OR REPLACE INTO task_outcomes (run_id, task_id, source, status, reason, progress, created_at, finished_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		dbo.RunID,
		dbo.TaskID,
		dbo.Source,
		dbo.Status,
		dbo.Reason,
		dbo.Progress,
		dbo.CreatedAt,
		dbo.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns up to limit outcomes, most recently finished first.
func (s *SQLiteStore) ListOutcomes(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT run_id, task_id, source, status, reason, progress, created_at, finished_at
		FROM task_outcomes
		ORDER BY finished_at DESC, run_id DESC, task_id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outcomes: %w", err)
	}
	defer rows.Close()

	var out []domain.Outcome
	for rows.Next() {
		var dbo outcomeDBO
		err := rows.Scan(
			&dbo.RunID, &dbo.TaskID, &dbo.Source, &dbo.Status,
			&dbo.Reason, &dbo.Progress, &dbo.CreatedAt, &dbo.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, dbo.ToDomain())
	}

	return out, rows.Err()
}
