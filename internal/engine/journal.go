package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/datallboy/godl/internal/domain"
	"github.com/datallboy/godl/internal/infra/logger"
	"github.com/segmentio/ksuid"
)

// OutcomeStore persists journal records.
type OutcomeStore interface {
	SaveOutcome(ctx context.Context, o domain.Outcome) error
}

// JournalSink records one outcome for every task whose terminal status event
// appears in a batch. All records of one engine share a run id.
type JournalSink struct {
	store OutcomeStore
	runID string
	log   *logger.Logger
}

func NewJournalSink(store OutcomeStore, log *logger.Logger) *JournalSink {
	if log == nil {
		log = logger.Discard()
	}
	return &JournalSink{
		store: store,
		runID: ksuid.New().String(),
		log:   log,
	}
}

func (j *JournalSink) RunID() string {
	return j.runID
}

func (j *JournalSink) Refresh(ctx context.Context, b Batch) error {
	var errs []error
	for _, s := range b.Terminal() {
		if err := j.store.SaveOutcome(ctx, domain.NewOutcome(j.runID, s)); err != nil {
			errs = append(errs, fmt.Errorf("journal task %d: %w", s.ID, err))
			continue
		}
		j.log.Debug("Journaled task %d as %s", s.ID, s.Status)
	}
	return errors.Join(errs...)
}
