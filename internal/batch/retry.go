package batch

import (
	"context"
	"time"

	"roomstyler/internal/gemini"
)

// Policy decides whether a failed attempt is retried and how long to wait
// before the next one. Only transient failures (rate limits, quota, server
// overload) are retried; permanent ones (bad input, policy rejections)
// never are.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// ShouldRetry reports whether the zero-indexed attempt may be followed by
// another one for the given error.
func (p Policy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.MaxAttempts-1 {
		return false
	}
	return gemini.Transient(err)
}

// BackoffFor returns the delay after the zero-indexed attempt: base, 2*base,
// 4*base, ... No cap is applied; with three attempts the longest wait is
// 4*base.
func (p Policy) BackoffFor(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

// Sleep waits out the attempt's backoff, or returns the context error if
// cancellation fires first.
func (p Policy) Sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.BackoffFor(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
