package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomstyler/internal/gemini"
)

func TestPolicyRetriesTransientOnly(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second}

	transient := gemini.NewTransientError(errors.New("boom"))
	permanent := gemini.NewPermanentError(errors.New("bad input"))

	require.True(t, p.ShouldRetry(transient, 0))
	require.True(t, p.ShouldRetry(transient, 1))
	require.False(t, p.ShouldRetry(transient, 2), "last attempt must not retry")
	require.False(t, p.ShouldRetry(permanent, 0))
}

func TestPolicyHeuristicClassification(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second}

	for _, msg := range []string{
		"HTTP 503 service unavailable",
		"rate limit hit",
		"quota exceeded for project",
		"model overloaded, try again",
	} {
		require.True(t, p.ShouldRetry(errors.New(msg), 0), msg)
	}
	require.False(t, p.ShouldRetry(errors.New("invalid image payload"), 0))
}

func TestPolicyBackoffDoubles(t *testing.T) {
	p := Policy{MaxAttempts: 4, BaseDelay: time.Second}
	require.Equal(t, time.Second, p.BackoffFor(0))
	require.Equal(t, 2*time.Second, p.BackoffFor(1))
	require.Equal(t, 4*time.Second, p.BackoffFor(2))
}

func TestPolicySleepCancellable(t *testing.T) {
	p := Policy{MaxAttempts: 2, BaseDelay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Sleep(ctx, 0) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sleep did not abort on cancellation")
	}
}
