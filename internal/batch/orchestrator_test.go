package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomstyler/internal/design"
	"roomstyler/internal/gemini"
)

// genFunc adapts a closure to Generator.
type genFunc func(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error)

func (f genFunc) Generate(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error) {
	return f(ctx, style, src)
}

// countingGenerator tracks per-style call counts and peak concurrency.
type countingGenerator struct {
	mu      sync.Mutex
	calls   map[string]int
	current int32
	peak    int32
	delay   time.Duration
	fn      func(style design.Style, attempt int) (*design.Generation, error)
}

func newCountingGenerator(delay time.Duration, fn func(style design.Style, attempt int) (*design.Generation, error)) *countingGenerator {
	return &countingGenerator{calls: make(map[string]int), delay: delay, fn: fn}
}

func (g *countingGenerator) Generate(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error) {
	cur := atomic.AddInt32(&g.current, 1)
	for {
		peak := atomic.LoadInt32(&g.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&g.peak, peak, cur) {
			break
		}
	}
	defer atomic.AddInt32(&g.current, -1)

	g.mu.Lock()
	attempt := g.calls[style.ID]
	g.calls[style.ID]++
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.delay):
		}
	}
	return g.fn(style, attempt)
}

func (g *countingGenerator) callCount(styleID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[styleID]
}

func testStyles(n int) []design.Style {
	out := make([]design.Style, n)
	for i := range out {
		out[i] = design.Style{
			ID:   fmt.Sprintf("style-%d", i),
			Name: fmt.Sprintf("Style %d", i),
		}
	}
	return out
}

func testSource() *design.Source {
	return &design.Source{Name: "room.jpg", MIME: "image/jpeg", Data: []byte{0xff}}
}

func okGeneration(style design.Style) (*design.Generation, error) {
	return &design.Generation{Ref: "generated_" + style.ID + ".png", Analysis: "ok"}, nil
}

func TestRunAllSucceed(t *testing.T) {
	gen := newCountingGenerator(0, func(style design.Style, _ int) (*design.Generation, error) {
		return okGeneration(style)
	})
	orch, err := New(gen, Config{MaxConcurrent: 3, MaxAttempts: 3, Deadline: 5 * time.Second, BackoffBase: time.Millisecond})
	require.NoError(t, err)

	styles := testStyles(5)
	res, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)

	require.Equal(t, 5, res.Total)
	require.Equal(t, 5, res.Succeeded)
	require.Equal(t, 0, res.Failed)
	require.Len(t, res.Outcomes, 5)
	require.Equal(t, "room.jpg", res.OriginalRef)
	for i, out := range res.Outcomes {
		require.Equal(t, styles[i].ID, out.StyleID, "outcomes must be in catalog order")
		require.True(t, out.Success)
		require.NotEmpty(t, out.GeneratedRef)
		require.Empty(t, out.Error)
	}
}

func TestRunPermanentFailuresGetOneAttempt(t *testing.T) {
	gen := newCountingGenerator(0, func(design.Style, int) (*design.Generation, error) {
		return nil, gemini.NewPermanentError(errors.New("content policy rejection"))
	})
	orch, err := New(gen, Config{MaxConcurrent: 2, MaxAttempts: 3, Deadline: 5 * time.Second, BackoffBase: time.Millisecond})
	require.NoError(t, err)

	styles := testStyles(4)
	res, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)

	require.Equal(t, 0, res.Succeeded)
	require.Equal(t, 4, res.Failed)
	for _, style := range styles {
		require.Equal(t, 1, gen.callCount(style.ID), "permanent errors must not be retried")
	}
	for _, out := range res.Outcomes {
		require.False(t, out.Success)
		require.Contains(t, out.Error, "content policy rejection")
	}
}

func TestRunTransientThenSuccess(t *testing.T) {
	const failFirst = 2
	base := 20 * time.Millisecond
	gen := newCountingGenerator(0, func(style design.Style, attempt int) (*design.Generation, error) {
		if attempt < failFirst {
			return nil, gemini.NewTransientError(errors.New("429 rate limited"))
		}
		return okGeneration(style)
	})
	orch, err := New(gen, Config{MaxConcurrent: 2, MaxAttempts: 3, Deadline: 10 * time.Second, BackoffBase: base})
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), testSource(), testStyles(2))
	require.NoError(t, err)

	require.Equal(t, 2, res.Succeeded)
	// Each task slept base + 2*base between its three attempts.
	minElapsed := base + 2*base
	for _, out := range res.Outcomes {
		require.True(t, out.Success)
		require.GreaterOrEqual(t, out.Elapsed, minElapsed)
	}
}

func TestRunRetriesExhausted(t *testing.T) {
	gen := newCountingGenerator(0, func(design.Style, int) (*design.Generation, error) {
		return nil, gemini.NewTransientError(errors.New("quota exceeded"))
	})
	orch, err := New(gen, Config{MaxConcurrent: 2, MaxAttempts: 3, Deadline: 10 * time.Second, BackoffBase: time.Millisecond})
	require.NoError(t, err)

	styles := testStyles(2)
	res, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)

	require.Equal(t, 2, res.Failed)
	for _, style := range styles {
		require.Equal(t, 3, gen.callCount(style.ID))
	}
	for _, out := range res.Outcomes {
		require.Contains(t, out.Error, "quota exceeded")
	}
}

func TestRunRespectsMaxConcurrent(t *testing.T) {
	for _, maxConcurrent := range []int{1, 2, 3} {
		gen := newCountingGenerator(30*time.Millisecond, func(style design.Style, _ int) (*design.Generation, error) {
			return okGeneration(style)
		})
		orch, err := New(gen, Config{MaxConcurrent: maxConcurrent, MaxAttempts: 1, Deadline: 10 * time.Second})
		require.NoError(t, err)

		res, err := orch.Run(context.Background(), testSource(), testStyles(6))
		require.NoError(t, err)
		require.Equal(t, 6, res.Succeeded)
		require.LessOrEqual(t, atomic.LoadInt32(&gen.peak), int32(maxConcurrent),
			"peak in-flight calls must not exceed maxConcurrent=%d", maxConcurrent)
	}
}

func TestRunDeadlineSynthesizesOutcomes(t *testing.T) {
	// Generator ignores cancellation, simulating a call that cannot be
	// aborted cooperatively.
	gen := genFunc(func(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error) {
		time.Sleep(2 * time.Second)
		return okGeneration(style)
	})
	orch, err := New(gen, Config{
		MaxConcurrent: 2,
		MaxAttempts:   1,
		Deadline:      50 * time.Millisecond,
		Grace:         50 * time.Millisecond,
	})
	require.NoError(t, err)

	styles := testStyles(4)
	start := time.Now()
	res, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)

	require.Less(t, time.Since(start), time.Second, "must return at the deadline, not when tasks finish")
	require.Len(t, res.Outcomes, 4)
	require.Equal(t, 0, res.Succeeded)
	for i, out := range res.Outcomes {
		require.Equal(t, styles[i].ID, out.StyleID)
		require.Equal(t, DeadlineExceededMessage, out.Error)
	}
}

func TestRunDeadlineCancelsCooperativeTasks(t *testing.T) {
	gen := newCountingGenerator(time.Second, func(style design.Style, _ int) (*design.Generation, error) {
		return okGeneration(style)
	})
	orch, err := New(gen, Config{
		MaxConcurrent: 4,
		MaxAttempts:   3,
		Deadline:      50 * time.Millisecond,
		Grace:         200 * time.Millisecond,
	})
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), testSource(), testStyles(4))
	require.NoError(t, err)

	require.Equal(t, 4, res.Failed)
	for _, out := range res.Outcomes {
		// Cooperative tasks flush a cancellation outcome inside the grace
		// window instead of being synthesized.
		require.Equal(t, CancelledMessage, out.Error)
	}
}

func TestRunObserverSeesEveryOutcome(t *testing.T) {
	gen := newCountingGenerator(0, func(style design.Style, _ int) (*design.Generation, error) {
		return okGeneration(style)
	})
	var seen []string
	orch, err := New(gen,
		Config{MaxConcurrent: 2, MaxAttempts: 1, Deadline: 5 * time.Second},
		WithObserver(func(out Outcome) { seen = append(seen, out.StyleID) }),
	)
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), testSource(), testStyles(5))
	require.NoError(t, err)
	require.Len(t, seen, 5)
}

func TestRunIdempotentSuccessFlags(t *testing.T) {
	// Deterministic client: even-indexed styles succeed, odd ones fail.
	gen := genFunc(func(_ context.Context, style design.Style, _ *design.Source) (*design.Generation, error) {
		if style.ID == "style-1" || style.ID == "style-3" {
			return nil, gemini.NewPermanentError(errors.New("bad style"))
		}
		return okGeneration(style)
	})
	orch, err := New(gen, Config{MaxConcurrent: 2, MaxAttempts: 2, Deadline: 5 * time.Second, BackoffBase: time.Millisecond})
	require.NoError(t, err)

	styles := testStyles(4)
	first, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)
	second, err := orch.Run(context.Background(), testSource(), styles)
	require.NoError(t, err)

	for i := range styles {
		require.Equal(t, first.Outcomes[i].Success, second.Outcomes[i].Success)
	}
}

func TestRunRejectsEmptyCatalog(t *testing.T) {
	gen := genFunc(func(_ context.Context, style design.Style, _ *design.Source) (*design.Generation, error) {
		return okGeneration(style)
	})
	orch, err := New(gen, Config{MaxConcurrent: 1, MaxAttempts: 1, Deadline: time.Second})
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), testSource(), nil)
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNewRejectsBadConfig(t *testing.T) {
	gen := genFunc(func(_ context.Context, style design.Style, _ *design.Source) (*design.Generation, error) {
		return okGeneration(style)
	})
	for _, cfg := range []Config{
		{MaxConcurrent: 0, MaxAttempts: 3, Deadline: time.Second},
		{MaxConcurrent: 2, MaxAttempts: 0, Deadline: time.Second},
		{MaxConcurrent: 2, MaxAttempts: 3, Deadline: 0},
	} {
		_, err := New(gen, cfg)
		require.Error(t, err)
	}
	_, err := New(nil, Config{MaxConcurrent: 1, MaxAttempts: 1, Deadline: time.Second})
	require.Error(t, err)
}
