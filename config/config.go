package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Source    SourceConfig
	Browser   BrowserConfig
	Server    ServerConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// SourceConfig controls how runner pages are fetched from the results site.
type SourceConfig struct {
	// BaseURL is the results site root. Runner pages live at
	// {BaseURL}/{race_id}/{runner_id}.
	BaseURL string // default: "https://www.myresult.co.kr"

	// HTTPTimeout is the deadline for the static fetch path.
	HTTPTimeout time.Duration // default: 15s

	// RenderTimeout is the maximum wait for the browser fallback to
	// produce the results rows.
	RenderTimeout time.Duration // default: 25s

	// Delay is the pause inserted between dispatched page requests,
	// bounding the outbound request rate.
	Delay time.Duration // default: 800ms

	// MaxConcurrent bounds how many runner fetches run at once.
	MaxConcurrent int // default: 4

	// ClockPassTimes, when true, interprets pass times as wall-clock
	// times of day relative to RaceStart instead of elapsed durations.
	ClockPassTimes bool // default: false

	// RaceStart is the race start time of day ("HH:MM:SS"), used only
	// when ClockPassTimes is set.
	RaceStart string
}

// BrowserConfig controls the headless browser used by the render fallback.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// Proxy is an optional proxy URL for browser navigation.
	Proxy string

	// Stealth enables anti-bot-detection evasions before navigation.
	Stealth bool // default: false
}

// ServerConfig controls the HTTP server started by `splitboard serve`.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// CacheConfig controls the in-memory runner result cache. Split times for
// a finished race never change, so short TTLs mostly shield the results
// site from repeat lookups of the same runner.
type CacheConfig struct {
	// TTL is how long a collected result stays servable. Zero disables
	// the cache entirely.
	TTL time.Duration // default: 10m

	// MaxEntries caps the cache size.
	MaxEntries int // default: 1000
}

// AuthConfig controls API-key authentication on the compare endpoint.
type AuthConfig struct {
	// APIKeys are the accepted keys. Empty means open access.
	APIKeys []string
}

// Enabled reports whether any API key is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0
}

// RateLimitConfig controls per-client rate limiting on the API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-identity rate. Zero or
	// negative disables rate limiting.
	RequestsPerSecond float64 // default: 1

	// Burst is the short-term allowance above the sustained rate.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:        envOr("SPLITBOARD_BASE_URL", "https://www.myresult.co.kr"),
			HTTPTimeout:    envDurationOr("SPLITBOARD_HTTP_TIMEOUT", 15*time.Second),
			RenderTimeout:  envDurationOr("SPLITBOARD_RENDER_TIMEOUT", 25*time.Second),
			Delay:          envDurationOr("SPLITBOARD_DELAY", 800*time.Millisecond),
			MaxConcurrent:  envIntOr("SPLITBOARD_MAX_CONCURRENT", 4),
			ClockPassTimes: envBoolOr("SPLITBOARD_CLOCK_PASS_TIMES", false),
			RaceStart:      os.Getenv("SPLITBOARD_RACE_START"),
		},
		Browser: BrowserConfig{
			Headless:  envBoolOr("SPLITBOARD_HEADLESS", true),
			NoSandbox: envBoolOr("SPLITBOARD_NO_SANDBOX", false),
			Bin:       os.Getenv("SPLITBOARD_BROWSER_BIN"),
			Proxy:     os.Getenv("SPLITBOARD_PROXY"),
			Stealth:   envBoolOr("SPLITBOARD_STEALTH", false),
		},
		Server: ServerConfig{
			Host: envOr("SPLITBOARD_HOST", "0.0.0.0"),
			Port: envIntOr("SPLITBOARD_PORT", 8080),
			Mode: envOr("SPLITBOARD_MODE", "release"),
		},
		Cache: CacheConfig{
			TTL:        envDurationOr("SPLITBOARD_CACHE_TTL", 10*time.Minute),
			MaxEntries: envIntOr("SPLITBOARD_CACHE_MAX_ENTRIES", 1000),
		},
		Auth: AuthConfig{
			APIKeys: envListOr("SPLITBOARD_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SPLITBOARD_RATE_LIMIT", 1),
			Burst:             envIntOr("SPLITBOARD_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("SPLITBOARD_LOG_LEVEL", "info"),
			Format: envOr("SPLITBOARD_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envListOr splits a comma-separated variable, trimming blanks.
func envListOr(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
