package engine

import (
	"context"
	"testing"
	"time"

	"github.com/datallboy/godl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedTransferDelay(t *testing.T) {
	transfer := SimulatedTransfer(TransferConfig{MinDelay: 5 * time.Millisecond, MaxDelay: 5 * time.Millisecond, Seed: 7})

	start := time.Now()
	require.NoError(t, transfer(context.Background(), 1, 0))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestSimulatedTransferFailure(t *testing.T) {
	transfer := SimulatedTransfer(TransferConfig{MinDelay: time.Microsecond, MaxDelay: time.Microsecond, FailureRate: 1, Seed: 7})

	err := transfer(context.Background(), 1, 3)
	var wf *domain.WorkerFailure
	require.ErrorAs(t, err, &wf)
	assert.Equal(t, 3, wf.Unit)
	assert.Equal(t, "simulated transfer error", wf.Reason)
}

func TestSimulatedTransferHonorsContext(t *testing.T) {
	transfer := SimulatedTransfer(TransferConfig{MinDelay: time.Minute, MaxDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, transfer(ctx, 1, 0), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInstantTransfer(t *testing.T) {
	assert.NoError(t, InstantTransfer(context.Background(), 1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, InstantTransfer(ctx, 1, 0), context.Canceled)
}
