package batch

import "context"

// Gate bounds how many generation calls may be in flight at once. A slot
// covers the external call only, not local bookkeeping around it.
type Gate struct {
	slots chan struct{}
}

// NewGate creates a gate with max slots. max must be >= 1.
func NewGate(max int) *Gate {
	if max < 1 {
		max = 1
	}
	g := &Gate{slots: make(chan struct{}, max)}
	for i := 0; i < max; i++ {
		g.slots <- struct{}{}
	}
	return g
}

// Acquire blocks until a slot is free or the context is canceled.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.slots:
		return nil
	}
}

// Release returns a slot. Calling it without a matching Acquire is a bug;
// the extra token is dropped rather than blocking.
func (g *Gate) Release() {
	select {
	case g.slots <- struct{}{}:
	default:
	}
}
