package main

import (
	"log/slog"

	"github.com/use-agent/splitboard/cache"
	"github.com/use-agent/splitboard/collector"
	"github.com/use-agent/splitboard/config"
	"github.com/use-agent/splitboard/engine"
	"github.com/use-agent/splitboard/extract"
	"github.com/use-agent/splitboard/scraper"
	"github.com/use-agent/splitboard/timeparse"
)

// buildPipeline assembles the full fetch→extract→collect pipeline from
// configuration. The returned cleanup func kills the browser if the render
// fallback was ever used.
func buildPipeline(cfg *config.Config) (*collector.Collector, func()) {
	ext := extract.New(extractOptions(cfg.Source))

	sc := scraper.NewScraper(cfg.Browser)
	static := engine.NewHTTPEngine()
	render := engine.NewRenderEngine(sc.RenderFunc(extract.RowSelector))
	fetcher := engine.NewFallback(static, render, extract.LooksLikeResults)

	var resultCache *cache.Cache
	if cfg.Cache.TTL > 0 {
		resultCache = cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	col := collector.New(fetcher, ext, collector.Options{
		BaseURL:        cfg.Source.BaseURL,
		Delay:          cfg.Source.Delay,
		MaxConcurrent:  cfg.Source.MaxConcurrent,
		RequestTimeout: cfg.Source.HTTPTimeout,
		RenderTimeout:  cfg.Source.RenderTimeout,
		Cache:          resultCache,
	})
	return col, sc.Close
}

// extractOptions resolves the pass-time interpretation from configuration,
// warning when clock mode is requested without a usable start time.
func extractOptions(src config.SourceConfig) extract.Options {
	opts := extract.Options{ClockPassTimes: src.ClockPassTimes}
	if !src.ClockPassTimes {
		return opts
	}
	start, err := timeparse.Parse(src.RaceStart)
	if err != nil {
		slog.Warn("clock pass times requested but race start is unusable; treating pass times as elapsed",
			"race_start", src.RaceStart, "error", err)
		opts.ClockPassTimes = false
		return opts
	}
	opts.RaceStart = start
	return opts
}
