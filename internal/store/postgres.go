package store

import (
	"context"
	"fmt"

	"github.com/datallboy/godl/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the journal in a shared postgres database, for setups
// where several godl instances report to one place.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveOutcome(ctx context.Context, o domain.Outcome) error {
	var reason *string
	if o.Reason != "" {
		reason = &o.Reason
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO task_outcomes (run_id, task_id, source, status, reason, progress, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, task_id) DO UPDATE SET
			status = excluded.status,
			reason = excluded.reason,
			progress = excluded.progress,
			finished_at = excluded.finished_at`,
		o.RunID, int64(o.TaskID), o.Source, string(o.Status), reason, o.Progress, o.CreatedAt, o.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListOutcomes(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT run_id, task_id, source, status, COALESCE(reason, ''), progress, created_at, finished_at
		FROM task_outcomes
		ORDER BY finished_at DESC, run_id DESC, task_id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outcomes: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Outcome, error) {
		var (
			o      domain.Outcome
			taskID int64
			status string
		)
		err := row.Scan(&o.RunID, &taskID, &o.Source, &status, &o.Reason, &o.Progress, &o.CreatedAt, &o.FinishedAt)
		o.TaskID = domain.TaskID(taskID)
		o.Status = domain.TaskStatus(status)
		return o, err
	})
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
