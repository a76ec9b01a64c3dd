package store

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS task_outcomes (
		run_id      TEXT    NOT NULL,
		task_id     INTEGER NOT NULL,
		source      TEXT    NOT NULL,
		status      TEXT    NOT NULL,
		reason      TEXT,
		progress    INTEGER NOT NULL,
		created_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, task_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_outcomes_finished ON task_outcomes (finished_at DESC)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS task_outcomes (
		run_id      TEXT        NOT NULL,
		task_id     BIGINT      NOT NULL,
		source      TEXT        NOT NULL,
		status      TEXT        NOT NULL,
		reason      TEXT,
		progress    INTEGER     NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, task_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_outcomes_finished ON task_outcomes (finished_at DESC)`,
}

func (s *SQLiteStore) RunMigrations(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
