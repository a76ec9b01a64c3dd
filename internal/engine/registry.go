package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/datallboy/godl/internal/domain"
)

// ControlFlag names one of the two request flags owned by the dispatcher.
type ControlFlag int

const (
	FlagPause ControlFlag = iota
	FlagCancel
)

// slot is the canonical record of one task. The worker is the only writer of
// the fields guarded by mu; the dispatcher is the only writer of the flags.
type slot struct {
	id        domain.TaskID
	source    string
	createdAt time.Time

	mu         sync.Mutex
	progress   int
	status     domain.TaskStatus
	reason     string
	startedAt  time.Time
	finishedAt time.Time

	pause  atomic.Bool
	cancel atomic.Bool

	wake     chan struct{} // one-slot, signaled on every flag write
	stop     chan struct{} // closed once cancel is requested
	stopOnce sync.Once
	done     chan struct{} // closed by the worker after its terminal event
}

func newSlot(id domain.TaskID, source string, now time.Time) *slot {
	return &slot{
		id:        id,
		source:    source,
		createdAt: now,
		status:    domain.StatusQueued,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *slot) snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *slot) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		ID:              s.id,
		Source:          s.source,
		Progress:        s.progress,
		Status:          s.status,
		Reason:          s.reason,
		PauseRequested:  s.pause.Load(),
		CancelRequested: s.cancel.Load(),
		CreatedAt:       s.createdAt,
		StartedAt:       s.startedAt,
		FinishedAt:      s.finishedAt,
	}
}

func (s *slot) currentStatus() domain.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// setFlag writes a control flag and nudges a paused worker. Cancel is sticky.
func (s *slot) setFlag(flag ControlFlag, value bool) {
	switch flag {
	case FlagPause:
		s.pause.Store(value)
	case FlagCancel:
		if !value {
			return
		}
		s.cancel.Store(true)
		s.stopOnce.Do(func() { close(s.stop) })
	}

	select {
	case s.wake <- struct{}{}:
	default:
		// A wake-up is already pending
	}
}

// Registry owns every task record, keyed by id in an append-only arena.
type Registry struct {
	mu    sync.RWMutex
	slots []*slot
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// Create allocates a Queued task and returns its id.
func (r *Registry) Create(source string) domain.TaskID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := domain.TaskID(len(r.slots) + 1)
	r.slots = append(r.slots, newSlot(id, source, r.now()))
	return id
}

func (r *Registry) lookup(id domain.TaskID) (*slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == 0 || int(id) > len(r.slots) {
		return nil, domain.ErrNotFound
	}
	return r.slots[id-1], nil
}

// Get returns a consistent snapshot of one task.
func (r *Registry) Get(id domain.TaskID) (domain.Snapshot, error) {
	s, err := r.lookup(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.snapshot(), nil
}

// SetControlFlag sets or clears a request flag. Legality is the dispatcher's concern.
func (r *Registry) SetControlFlag(id domain.TaskID, flag ControlFlag, value bool) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	s.setFlag(flag, value)
	return nil
}

// Request sets a control flag only if allow accepts the task's current state.
// The check and the write happen under the task's lock, so the worker cannot
// change status in between.
func (r *Registry) Request(id domain.TaskID, flag ControlFlag, value bool, allow func(domain.Snapshot) error) error {
	s, err := r.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := allow(s.snapshotLocked()); err != nil {
		return err
	}
	s.setFlag(flag, value)
	return nil
}

// Snapshots returns every task in id order.
func (r *Registry) Snapshots() []domain.Snapshot {
	r.mu.RLock()
	slots := make([]*slot, len(r.slots))
	copy(slots, r.slots)
	r.mu.RUnlock()

	out := make([]domain.Snapshot, len(slots))
	for i, s := range slots {
		out[i] = s.snapshot()
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
