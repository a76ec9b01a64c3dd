package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "godl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreSaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.UnixMilli(time.Now().UnixMilli())
	outcomes := []domain.Outcome{
		{RunID: "run-a", TaskID: 1, Source: "a", Status: domain.StatusCompleted, Progress: 100, CreatedAt: base, FinishedAt: base.Add(time.Second)},
		{RunID: "run-a", TaskID: 2, Source: "b", Status: domain.StatusFailed, Reason: "boom", Progress: 40, CreatedAt: base, FinishedAt: base.Add(3 * time.Second)},
		{RunID: "run-b", TaskID: 1, Source: "c", Status: domain.StatusCanceled, Progress: 10, CreatedAt: base, FinishedAt: base.Add(2 * time.Second)},
	}
	for _, o := range outcomes {
		require.NoError(t, s.SaveOutcome(ctx, o))
	}

	got, err := s.ListOutcomes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, outcomes[1], got[0])
	assert.Equal(t, outcomes[2], got[1])
	assert.Equal(t, outcomes[0], got[2])

	limited, err := s.ListOutcomes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "boom", limited[0].Reason)
}

func TestSQLiteStoreSaveReplacesSameTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.UnixMilli(time.Now().UnixMilli())
	o := domain.Outcome{RunID: "run", TaskID: 1, Source: "a", Status: domain.StatusCanceled, CreatedAt: now, FinishedAt: now}
	require.NoError(t, s.SaveOutcome(ctx, o))
	require.NoError(t, s.SaveOutcome(ctx, o))

	got, err := s.ListOutcomes(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Empty(t, got[0].Reason)
}

func TestSQLiteStoreMigrationsAreRepeatable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RunMigrations(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: config.DriverNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "godl.db")})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}
