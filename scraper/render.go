package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/splitboard/engine"
	"github.com/use-agent/splitboard/models"
	"github.com/ysmood/gson"
)

// selectorWait bounds how long Render waits for the results rows to appear
// before settling for whatever the DOM converged to. The extractor reports
// a missing table on its own, so giving up here is not an error.
const selectorWait = 8 * time.Second

// Render loads the URL in a fresh browser tab, waits for the given row
// selector (or DOM stability), and returns the fully rendered HTML.
//
// The page is acquired and closed around this single load: the render
// session never outlives one fetch, so a failure mid-collection cannot
// leak tabs across the rest of the run.
func (s *Scraper) Render(ctx context.Context, req *engine.FetchRequest, waitSelector string) (*engine.FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}
	// Close with the original page reference so cleanup still succeeds
	// after the request context has expired.
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Warn("cleanup: failed to close page", "error", closeErr)
		}
	}()

	// Stealth JS only takes effect for navigations installed before it.
	if s.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	if len(req.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(req.Headers),
		}.Call(page)
	}

	p := page.Context(ctx)

	if navErr := p.Navigate(req.URL); navErr != nil {
		return nil, categorizeRenderErr(navErr, "navigation to runner page failed")
	}

	// The results rows are script-generated; wait for them up to
	// selectorWait, then fall back to DOM stability.
	waited := false
	if waitSelector != "" {
		if _, selErr := p.Timeout(selectorWait).Element(waitSelector); selErr == nil {
			waited = true
		} else {
			slog.Debug("results selector did not appear",
				"url", req.URL, "selector", waitSelector, "error", selErr)
		}
	}
	if !waited {
		if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
			slog.Debug("DOM did not converge, proceeding with current content",
				"url", req.URL, "error", stableErr)
		}
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeRenderErr(htmlErr, "failed to extract rendered HTML")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:     rawHTML,
		Title:    title,
		FinalURL: finalURL,
	}, nil
}

// RenderFunc adapts the scraper for the engine wiring, binding the row
// selector the results page is known to use.
func (s *Scraper) RenderFunc(waitSelector string) engine.RenderFunc {
	return func(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
		return s.Render(ctx, req, waitSelector)
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (used only for optional metadata).
func evalStringOrEmpty(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil || res == nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

func categorizeRenderErr(err error, msg string) *models.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewError(models.ErrCodeCanceled, msg, err)
	default:
		return models.NewError(models.ErrCodeRenderFailed, msg, err)
	}
}
