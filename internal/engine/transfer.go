package engine

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/datallboy/godl/internal/domain"
)

const (
	DefaultMinDelay = 50 * time.Millisecond
	DefaultMaxDelay = 200 * time.Millisecond
)

// TransferConfig shapes the simulated transfer speed.
type TransferConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	FailureRate float64 // probability in [0,1] that a unit fails
	Seed        uint64  // 0 seeds from the clock
}

// SimulatedTransfer waits a uniformly random duration in [MinDelay, MaxDelay]
// per unit and fails a unit with probability FailureRate.
func SimulatedTransfer(cfg TransferConfig) Transfer {
	if cfg.MinDelay <= 0 && cfg.MaxDelay <= 0 {
		cfg.MinDelay, cfg.MaxDelay = DefaultMinDelay, DefaultMaxDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return func(ctx context.Context, id domain.TaskID, unit int) error {
		mu.Lock()
		delay := cfg.MinDelay
		if span := cfg.MaxDelay - cfg.MinDelay; span > 0 {
			delay += time.Duration(rng.Int64N(int64(span) + 1))
		}
		fail := cfg.FailureRate > 0 && rng.Float64() < cfg.FailureRate
		mu.Unlock()

		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
		if fail {
			return &domain.WorkerFailure{Unit: unit, Reason: "simulated transfer error"}
		}
		return nil
	}
}

// InstantTransfer completes every unit immediately.
func InstantTransfer(ctx context.Context, _ domain.TaskID, _ int) error {
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
