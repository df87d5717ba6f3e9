package batch

import (
	"context"
	"time"

	"roomstyler/internal/design"
)

// Generator performs one style-transformation attempt against the external
// generation service. A call may take seconds to tens of seconds.
type Generator interface {
	Generate(ctx context.Context, style design.Style, src *design.Source) (*design.Generation, error)
}

// Outcome is the terminal record of one style's task: success, exhausted
// retries, or cancellation. Immutable after creation.
type Outcome struct {
	StyleID      string
	StyleName    string
	Success      bool
	GeneratedRef string
	Analysis     string
	Error        string
	Elapsed      time.Duration
}

// Result is the assembled product of one batch. Outcomes are in catalog
// order regardless of completion order.
type Result struct {
	OriginalRef string
	Elapsed     time.Duration
	Total       int
	Succeeded   int
	Failed      int
	Outcomes    []Outcome
}

// Error descriptions recorded on outcomes. The HTTP layer compares against
// these to tell a timed-out batch from ordinary per-style failures.
const (
	CancelledMessage        = "cancelled"
	DeadlineExceededMessage = "deadline exceeded"
)
