package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"roomstyler/internal/design"
)

// ErrEmptyCatalog is returned when Run is asked to process zero styles.
var ErrEmptyCatalog = errors.New("batch: empty style catalog")

// Config fixes the batch's resource envelope. Values are not hot-reloadable
// mid-batch.
type Config struct {
	// MaxConcurrent bounds in-flight generation calls.
	MaxConcurrent int
	// MaxAttempts is the total number of tries per style (first attempt
	// plus retries).
	MaxAttempts int
	// Deadline is the wall-clock budget for the whole batch.
	Deadline time.Duration
	// BackoffBase is the first retry delay; doubles each retry.
	// Defaults to one second.
	BackoffBase time.Duration
	// Grace is how long to wait after the deadline for straggler outcomes
	// before synthesizing timeout failures. Defaults to one second.
	Grace time.Duration
}

func (c Config) validate() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("batch: max concurrent must be >= 1, got %d", c.MaxConcurrent)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("batch: max attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.Deadline <= 0 {
		return fmt.Errorf("batch: deadline must be positive, got %v", c.Deadline)
	}
	return nil
}

// Orchestrator fans one generation task per style out over a shared gate
// and assembles a Result under a single deadline. Task failures are data,
// not errors: every Run that starts terminates with a Result.
type Orchestrator struct {
	gen       Generator
	cfg       Config
	onOutcome func(Outcome)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers a callback invoked once per outcome in completion
// order, including synthetic timeout outcomes. The callback runs on the
// orchestrator's collection goroutine and should return quickly.
func WithObserver(fn func(Outcome)) Option {
	return func(o *Orchestrator) { o.onOutcome = fn }
}

// New validates cfg and builds an orchestrator around the given generator.
func New(gen Generator, cfg Config, opts ...Option) (*Orchestrator, error) {
	if gen == nil {
		return nil, errors.New("batch: generator is nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.Grace <= 0 {
		cfg.Grace = time.Second
	}
	o := &Orchestrator{gen: gen, cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

type indexedOutcome struct {
	idx int
	out Outcome
}

// Run processes every style concurrently and returns one Result with
// exactly one outcome per style, in the order given. It never blocks past
// Deadline+Grace: tasks that have not reported by then get a synthetic
// "deadline exceeded" outcome and may finish in the background unobserved.
func (o *Orchestrator) Run(ctx context.Context, src *design.Source, styles []design.Style) (*Result, error) {
	if len(styles) == 0 {
		return nil, ErrEmptyCatalog
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, o.cfg.Deadline)
	defer cancel()

	gate := NewGate(o.cfg.MaxConcurrent)
	runner := &taskRunner{
		gen:    o.gen,
		gate:   gate,
		policy: Policy{MaxAttempts: o.cfg.MaxAttempts, BaseDelay: o.cfg.BackoffBase},
	}

	// Buffered so stragglers finishing after collection stops don't leak
	// their goroutines.
	done := make(chan indexedOutcome, len(styles))
	for i, style := range styles {
		go func(i int, style design.Style) {
			done <- indexedOutcome{idx: i, out: runner.run(runCtx, style, src)}
		}(i, style)
	}

	outcomes := make([]Outcome, len(styles))
	got := make([]bool, len(styles))
	remaining := len(styles)

collect:
	for remaining > 0 {
		select {
		case r := <-done:
			outcomes[r.idx] = r.out
			got[r.idx] = true
			remaining--
			o.observe(r.out)
		case <-runCtx.Done():
			break collect
		}
	}

	if remaining > 0 {
		// Deadline fired with tasks still out. Cancellation has already
		// propagated through runCtx; give them a short grace window to
		// flush their cancellation outcomes.
		grace := time.NewTimer(o.cfg.Grace)
		defer grace.Stop()
	drain:
		for remaining > 0 {
			select {
			case r := <-done:
				outcomes[r.idx] = r.out
				got[r.idx] = true
				remaining--
				o.observe(r.out)
			case <-grace.C:
				break drain
			}
		}
		for i := range outcomes {
			if got[i] {
				continue
			}
			out := Outcome{
				StyleID:   styles[i].ID,
				StyleName: styles[i].Name,
				Error:     DeadlineExceededMessage,
				Elapsed:   time.Since(start),
			}
			outcomes[i] = out
			o.observe(out)
		}
		log.Printf("batch deadline exceeded: %d/%d styles unfinished", remaining, len(styles))
	}

	res := &Result{
		OriginalRef: src.Name,
		Elapsed:     time.Since(start),
		Total:       len(styles),
		Outcomes:    outcomes,
	}
	for _, out := range outcomes {
		if out.Success {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	log.Printf("batch finished: %d/%d succeeded in %v", res.Succeeded, res.Total, res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func (o *Orchestrator) observe(out Outcome) {
	if o.onOutcome != nil {
		o.onOutcome(out)
	}
}
