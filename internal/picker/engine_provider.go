package picker

import (
	"context"

	"github.com/runger/markfind/internal/search"
)

// EngineProvider adapts the search engine to the Provider interface. Each
// request goes through Trigger so the engine's in-flight handle stays
// current: pressing Enter right after a keystroke can await the pass it
// started instead of racing it.
type EngineProvider struct {
	engine *search.Engine
}

// NewEngineProvider wraps engine as a picker Provider.
func NewEngineProvider(engine *search.Engine) *EngineProvider {
	return &EngineProvider{engine: engine}
}

// Search implements Provider.
func (p *EngineProvider) Search(ctx context.Context, req Request) (Response, error) {
	results, err := p.engine.Trigger(ctx, req.Term).Wait(ctx)
	if err != nil {
		return Response{RequestID: req.RequestID}, err
	}
	return Response{RequestID: req.RequestID, Results: results}, nil
}
