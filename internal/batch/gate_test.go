package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGateBoundsSlots(t *testing.T) {
	g := NewGate(2)
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx))
	require.NoError(t, g.Acquire(ctx))

	// Third acquire must block until a slot is released.
	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := g.Acquire(blocked)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	g.Release()
	require.NoError(t, g.Acquire(ctx))
}

func TestGateAcquireCancellable(t *testing.T) {
	g := NewGate(1)
	require.NoError(t, g.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Acquire(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("acquire did not abort on cancellation")
	}
}

func TestGateReleaseWithoutAcquireDoesNotGrow(t *testing.T) {
	g := NewGate(1)
	g.Release() // spurious; capacity must stay at 1

	ctx := context.Background()
	require.NoError(t, g.Acquire(ctx))

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	require.Error(t, g.Acquire(blocked))
}
