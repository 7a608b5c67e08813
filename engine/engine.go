// Package engine provides the page-fetching strategies: a lightweight
// static HTTP path and a headless-browser render path, selected at runtime
// by a content-shape check.
package engine

import (
	"context"
	"time"
)

// Engine is the interface both fetch strategies implement, so downstream
// code is fetch-method-agnostic.
type Engine interface {
	// Name returns the engine identifier ("http" or "browser").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string

	// Timeout bounds the static fetch.
	Timeout time.Duration

	// RenderTimeout bounds the browser fallback, which needs longer to
	// load and execute the page's scripts. Zero falls back to Timeout.
	RenderTimeout time.Duration
}

// FetchResult is the output of a successful engine fetch. Both strategies
// return this same shape.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}
