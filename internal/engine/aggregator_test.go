package engine

import (
	"testing"

	"github.com/datallboy/godl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestOverallProgress(t *testing.T) {
	cases := []struct {
		name  string
		snaps []domain.Snapshot
		want  domain.Overall
	}{
		{name: "empty", want: domain.Overall{}},
		{
			name: "no active tasks",
			snaps: []domain.Snapshot{
				{Status: domain.StatusQueued},
				{Status: domain.StatusCompleted, Progress: 100},
				{Status: domain.StatusCanceled, Progress: 40},
				{Status: domain.StatusFailed, Progress: 12},
			},
			want: domain.Overall{},
		},
		{
			name: "paused tasks count",
			snaps: []domain.Snapshot{
				{Status: domain.StatusDownloading, Progress: 40},
				{Status: domain.StatusPaused, Progress: 20},
				{Status: domain.StatusCompleted, Progress: 100},
				{Status: domain.StatusQueued},
			},
			want: domain.Overall{Mean: 30, Active: 2},
		},
		{
			name: "fractional mean",
			snaps: []domain.Snapshot{
				{Status: domain.StatusDownloading, Progress: 1},
				{Status: domain.StatusDownloading, Progress: 2},
			},
			want: domain.Overall{Mean: 1.5, Active: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OverallProgress(tc.snaps))
		})
	}
}
