package engine

import "github.com/datallboy/godl/internal/domain"

// OverallProgress returns the mean progress over the active tasks in snaps.
// With no active task it returns the zero Overall.
func OverallProgress(snaps []domain.Snapshot) domain.Overall {
	var total, active int
	for _, s := range snaps {
		if !s.Status.IsActive() {
			continue
		}
		total += s.Progress
		active++
	}

	if active == 0 {
		return domain.Overall{}
	}
	return domain.Overall{
		Mean:   float64(total) / float64(active),
		Active: active,
	}
}
