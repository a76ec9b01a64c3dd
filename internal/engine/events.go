package engine

import (
	"sync"
	"time"

	"github.com/datallboy/godl/internal/domain"
)

// EventQueue is an unbounded multi-producer, single-consumer event buffer.
// Push never blocks, so workers cannot stall on a slow consumer.
type EventQueue struct {
	mu      sync.Mutex
	pending []domain.Event
	seq     uint64
	now     func() time.Time

	ready chan struct{}
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		now:   time.Now,
		ready: make(chan struct{}, 1),
	}
}

// Push stamps the event with the next sequence number and appends it.
func (q *EventQueue) Push(ev domain.Event) domain.Event {
	q.mu.Lock()
	q.seq++
	ev.Seq = q.seq
	if ev.At.IsZero() {
		ev.At = q.now()
	}
	q.pending = append(q.pending, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
		// Consumer already has a pending signal
	}
	return ev
}

// Drain returns every pending event in push order and empties the queue.
// It never blocks and returns nil when nothing is pending.
func (q *EventQueue) Drain() []domain.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

// Ready is signaled after a push. One signal may cover many events.
func (q *EventQueue) Ready() <-chan struct{} {
	return q.ready
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
