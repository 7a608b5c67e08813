package engine

import (
	"context"

	"github.com/use-agent/splitboard/models"
)

// RenderFunc is the callback type wrapping the headless-browser scraper.
// It is injected from the wiring layer to keep engine/ free of a scraper/
// import (and the rod dependency tree) in tests.
type RenderFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RenderEngine is the browser-based strategy. It delegates to the injected
// render callback and stamps its own name on the result.
type RenderEngine struct {
	render RenderFunc
}

// NewRenderEngine creates a RenderEngine around the given callback.
func NewRenderEngine(render RenderFunc) *RenderEngine {
	return &RenderEngine{render: render}
}

func (e *RenderEngine) Name() string { return "browser" }

func (e *RenderEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.render == nil {
		return nil, models.NewError(models.ErrCodeRenderFailed, "render callback not configured", nil)
	}

	// Clone so the caller's request keeps its static-path timeout.
	r := *req
	if r.RenderTimeout > 0 {
		r.Timeout = r.RenderTimeout
	}

	result, err := e.render(ctx, &r)
	if err != nil {
		return nil, err
	}
	result.EngineName = e.Name()
	return result, nil
}
