// Package collector orchestrates fetching and extracting a set of runners,
// with bounded concurrency, outbound pacing, and per-runner error isolation.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/splitboard/cache"
	"github.com/use-agent/splitboard/engine"
	"github.com/use-agent/splitboard/models"
	"golang.org/x/time/rate"
)

// Fetcher retrieves one runner page. engine.Fallback satisfies it; tests
// substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Extractor turns fetched HTML into split records and page metadata.
type Extractor interface {
	Records(html string) ([]models.SplitRecord, error)
	Meta(html string) models.RunnerMeta
}

// Options configures a Collector.
type Options struct {
	// BaseURL is the results site root; runner pages live at
	// {BaseURL}/{race_id}/{runner_id}.
	BaseURL string

	// Delay is the minimum spacing between dispatched page requests.
	Delay time.Duration

	// MaxConcurrent bounds in-flight runner fetches.
	MaxConcurrent int

	// RequestTimeout is the static fetch deadline per runner.
	RequestTimeout time.Duration

	// RenderTimeout is the browser-fallback deadline per runner.
	RenderTimeout time.Duration

	// Limiter overrides the delay-derived rate limiter. Tests inject an
	// unlimited limiter so collection runs without real sleeps.
	Limiter *rate.Limiter

	// Cache, when non-nil, serves recent results without re-fetching.
	// Only successfully collected results are cached; failures are
	// always retried on the next request.
	Cache *cache.Cache
}

// Collector collects RunnerResults for a set of runner identifiers.
type Collector struct {
	fetcher       Fetcher
	extractor     Extractor
	baseURL       string
	limiter       *rate.Limiter
	maxConcurrent int
	timeout       time.Duration
	renderTimeout time.Duration
	cache         *cache.Cache
}

// New creates a Collector.
func New(fetcher Fetcher, extractor Extractor, opts Options) *Collector {
	limiter := opts.Limiter
	if limiter == nil {
		if opts.Delay > 0 {
			limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
		} else {
			limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Collector{
		fetcher:       fetcher,
		extractor:     extractor,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		limiter:       limiter,
		maxConcurrent: maxConcurrent,
		timeout:       opts.RequestTimeout,
		renderTimeout: opts.RenderTimeout,
		cache:         opts.Cache,
	}
}

// Collect fetches and extracts every runner in runnerIDs. It never returns
// an error: each input id maps to a RunnerResult, failed ones carrying an
// explicit error detail so the requester knows which identifiers to retry.
//
// Pacing applies per dispatched request, before a worker starts the fetch,
// so the outbound rate stays bounded regardless of concurrency. When ctx
// is done, not-yet-started fetches are skipped and reported as canceled
// while already-collected results are kept.
func (c *Collector) Collect(ctx context.Context, raceID string, runnerIDs []int) map[int]*models.RunnerResult {
	results := make(map[int]*models.RunnerResult, len(runnerIDs))
	if len(runnerIDs) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	sem := make(chan struct{}, c.maxConcurrent)

	for _, id := range runnerIDs {
		// Cache hits never touch the site, so they bypass pacing.
		if c.cache != nil {
			if cached, ok := c.cache.Get(cache.Key(raceID, id)); ok {
				slog.Debug("runner served from cache", "race", raceID, "runner", id)
				mu.Lock()
				results[id] = cached
				mu.Unlock()
				continue
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			mu.Lock()
			results[id] = models.FailedResult(id,
				models.NewError(models.ErrCodeCanceled, "collection canceled before dispatch", err))
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(runnerID int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := c.collectOne(ctx, raceID, runnerID)
			mu.Lock()
			results[runnerID] = result
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return results
}

// collectOne runs one runner's fetch→extract sequence. Failures never
// propagate; they become a failed RunnerResult.
func (c *Collector) collectOne(ctx context.Context, raceID string, runnerID int) *models.RunnerResult {
	url := fmt.Sprintf("%s/%s/%d", c.baseURL, raceID, runnerID)

	fetched, err := c.fetcher.Fetch(ctx, &engine.FetchRequest{
		URL:           url,
		Timeout:       c.timeout,
		RenderTimeout: c.renderTimeout,
	})
	if err != nil {
		slog.Warn("runner fetch failed", "race", raceID, "runner", runnerID, "error", err)
		return models.FailedResult(runnerID, err)
	}

	records, err := c.extractor.Records(fetched.HTML)
	if err != nil {
		slog.Warn("runner page unrecognized", "race", raceID, "runner", runnerID,
			"method", fetched.EngineName, "error", err)
		result := models.FailedResult(runnerID, err)
		result.FetchMethod = fetched.EngineName
		return result
	}

	result := &models.RunnerResult{
		RunnerID:    runnerID,
		Meta:        c.extractor.Meta(fetched.HTML),
		Splits:      records,
		Status:      status(records),
		FetchMethod: fetched.EngineName,
	}
	slog.Info("runner collected", "race", raceID, "runner", runnerID,
		"splits", len(records), "status", result.Status, "method", fetched.EngineName)
	if c.cache != nil {
		c.cache.Set(cache.Key(raceID, runnerID), result)
	}
	return result
}

// status is partial when any row carries an unparseable time field.
func status(records []models.SplitRecord) models.FetchStatus {
	for _, rec := range records {
		if !rec.Pass.Valid || !rec.Segment.Valid || !rec.Cumulative.Valid {
			return models.StatusPartial
		}
	}
	return models.StatusOK
}
