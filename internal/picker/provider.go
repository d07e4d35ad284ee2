package picker

import (
	"context"

	"github.com/runger/markfind/internal/corpus"
)

// Provider is the interface for data sources that supply results to the
// picker. The production implementation wraps the search engine; tests
// substitute fakes.
type Provider interface {
	Search(ctx context.Context, req Request) (Response, error)
}

// Request describes one search the picker wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Term      string // Raw input as typed
}

// Response carries results back from a Provider.
type Response struct {
	RequestID uint64
	Results   []corpus.SearchResult
}
