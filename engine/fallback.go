package engine

import (
	"context"
	"log/slog"

	"github.com/use-agent/splitboard/models"
)

// Validate reports whether fetched HTML looks like the expected results
// page. It runs on content shape, decoupled from HTTP status, so a 200
// carrying an unrendered application shell still escalates.
type Validate func(html string) bool

// Fallback is the two-strategy fetcher: the static engine runs first, and
// the render engine is invoked exactly once when the static path fails or
// its content fails validation.
type Fallback struct {
	static   Engine
	render   Engine
	validate Validate
}

// NewFallback creates a Fallback. validate may be nil, in which case any
// static success is accepted as-is.
func NewFallback(static, render Engine, validate Validate) *Fallback {
	return &Fallback{static: static, render: render, validate: validate}
}

// Fetch runs the escalation. The returned result carries the name of the
// engine that produced it, so callers can record the fetch method without
// caring which path won.
func (f *Fallback) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	result, err := f.static.Fetch(ctx, req)
	if err == nil && (f.validate == nil || f.validate(result.HTML)) {
		return result, nil
	}

	if err != nil {
		slog.Debug("static fetch failed, escalating to browser",
			"url", req.URL, "error", err)
	} else {
		slog.Debug("static fetch returned unexpected content shape, escalating to browser",
			"url", req.URL, "status", result.StatusCode)
	}

	// Don't start a browser for a request the caller already abandoned.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, models.NewError(models.ErrCodeCanceled, "fetch canceled before fallback", ctxErr)
	}

	rendered, renderErr := f.render.Fetch(ctx, req)
	if renderErr != nil {
		slog.Warn("both fetch paths exhausted", "url", req.URL, "error", renderErr)
		return nil, wrapRenderErr(renderErr)
	}
	return rendered, nil
}

// wrapRenderErr keeps timeout/cancel codes intact and folds everything else
// from the browser path into RENDER_FAILED.
func wrapRenderErr(err error) error {
	e := models.AsError(err)
	switch e.Code {
	case models.ErrCodeTimeout, models.ErrCodeCanceled, models.ErrCodeNotFound, models.ErrCodeRenderFailed:
		return e
	default:
		return models.NewError(models.ErrCodeRenderFailed, e.Message, e)
	}
}
