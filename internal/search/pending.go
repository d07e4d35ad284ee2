package search

import (
	"context"
	"sync"

	"github.com/runger/markfind/internal/corpus"
)

// Pending is the awaitable handle around one in-flight search pass. An
// immediately-following action (pressing Enter on a selection) awaits the
// just-triggered search instead of racing it; this is the only ordering
// guarantee across calls. Passes are never cancelled mid-flight.
type Pending struct {
	done    chan struct{}
	results []corpus.SearchResult
	err     error
}

// Wait blocks until the pass completes or ctx is done.
func (p *Pending) Wait(ctx context.Context) ([]corpus.SearchResult, error) {
	select {
	case <-p.done:
		return p.results, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done reports completion without blocking.
func (p *Pending) Done() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

type pendingState struct {
	mu     sync.Mutex
	active *Pending
}

// Trigger starts a search pass in the background and returns its handle.
// A newer keystroke simply triggers a new pass while the previous one
// finishes and publishes to the cache; results are keyed by their own term
// so distinct terms never collide.
func (e *Engine) Trigger(ctx context.Context, raw string) *Pending {
	p := &Pending{done: make(chan struct{})}

	e.pending.mu.Lock()
	e.pending.active = p
	e.pending.mu.Unlock()

	go func() {
		p.results, p.err = e.Search(ctx, raw)
		close(p.done)
	}()
	return p
}

// Active returns the most recently triggered pass, or nil before the first
// trigger.
func (e *Engine) Active() *Pending {
	e.pending.mu.Lock()
	defer e.pending.mu.Unlock()
	return e.pending.active
}
