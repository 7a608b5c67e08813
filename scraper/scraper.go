// Package scraper owns the headless-browser render path used when the
// static fetch cannot produce the script-generated results table.
package scraper

import (
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/use-agent/splitboard/config"
	"github.com/use-agent/splitboard/models"
)

// Scraper manages the browser process lifecycle. The browser is launched
// lazily on the first render so collections that never need the fallback
// never pay for a Chrome process. Safe for concurrent use.
type Scraper struct {
	cfg config.BrowserConfig

	mu      sync.Mutex
	browser *rod.Browser
}

// NewScraper prepares a Scraper. No browser is started yet.
func NewScraper(cfg config.BrowserConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// ensureBrowser launches and connects the browser on first use.
func (s *Scraper) ensureBrowser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)
	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	if s.cfg.Proxy != "" {
		l = l.Proxy(s.cfg.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	slog.Info("browser launched", "controlURL", controlURL, "headless", s.cfg.Headless)
	s.browser = browser
	return browser, nil
}

// Close kills the browser process if one was ever launched. Call on
// shutdown to prevent zombie Chrome processes.
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}
	slog.Info("scraper shutting down: closing browser")
	s.browser.MustClose()
	s.browser = nil
}
