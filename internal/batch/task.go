package batch

import (
	"context"
	"time"

	"roomstyler/internal/design"
)

// taskRunner drives one style's full lifecycle: acquire a gate slot, call
// the generator, retry per policy, and always produce exactly one Outcome.
type taskRunner struct {
	gen    Generator
	gate   *Gate
	policy Policy
}

func (r *taskRunner) run(ctx context.Context, style design.Style, src *design.Source) Outcome {
	start := time.Now()
	out := Outcome{StyleID: style.ID, StyleName: style.Name}

	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if err := r.gate.Acquire(ctx); err != nil {
			out.Error = CancelledMessage
			out.Elapsed = time.Since(start)
			return out
		}
		gen, err := r.gen.Generate(ctx, style, src)
		// The slot covers the external call only; give it back before any
		// result handling so a waiting task can start its call.
		r.gate.Release()

		if err == nil {
			out.Success = true
			out.GeneratedRef = gen.Ref
			out.Analysis = gen.Analysis
			out.Elapsed = time.Since(start)
			return out
		}
		if ctx.Err() != nil {
			out.Error = CancelledMessage
			out.Elapsed = time.Since(start)
			return out
		}
		lastErr = err
		if !r.policy.ShouldRetry(err, attempt) {
			break
		}
		if err := r.policy.Sleep(ctx, attempt); err != nil {
			out.Error = CancelledMessage
			out.Elapsed = time.Since(start)
			return out
		}
	}

	out.Error = lastErr.Error()
	out.Elapsed = time.Since(start)
	return out
}
