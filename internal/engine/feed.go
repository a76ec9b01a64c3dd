package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/datallboy/godl/internal/domain"
)

const DefaultFeedSize = 4096

// Feed is a sink that keeps the most recent events so that remote clients
// can poll by sequence number. Older events fall off the end.
type Feed struct {
	mu     sync.RWMutex
	events []domain.Event
	size   int
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Refresh(_ context.Context, b Batch) error {
	if len(b.Events) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, b.Events...)
	if over := len(f.events) - f.size; over > 0 {
		f.events = append([]domain.Event(nil), f.events[over:]...)
	}
	return nil
}

// Since returns up to limit retained events with Seq greater than after.
func (f *Feed) Since(after uint64, limit int) []domain.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	i := sort.Search(len(f.events), func(i int) bool {
		return f.events[i].Seq > after
	})

	rest := f.events[i:]
	if limit > 0 && len(rest) > limit {
		rest = rest[:limit]
	}

	out := make([]domain.Event, len(rest))
	copy(out, rest)
	return out
}
