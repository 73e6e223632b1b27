package mdmirror

import (
	"net/url"
	"slices"
	"time"
)

// Configuration defaults.
const (
	DefaultMaxDepth         = 5
	DefaultDelay            = time.Second
	DefaultUserAgent        = "mdmirror-bot/1.0"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultAssetConcurrency = 4
)

// Extraction engines accepted by Config.Extractor.
const (
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
)

// Config holds the options of a mirroring run.
type Config struct {
	TargetURL    string
	MaxDepth     int
	Delay        time.Duration
	UserAgent    string
	OutputDir    string
	IgnoreLinks  bool
	BypassTables bool

	Extractor         string
	IncludeSubdomains bool
	MaxPages          int
	RequestTimeout    time.Duration
	RunTimeout        time.Duration
	AssetConcurrency  int
	IndexDB           string
	WriteSitemap      bool

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a Config populated with default values.
// TargetURL and OutputDir have no defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:         DefaultMaxDepth,
		Delay:            DefaultDelay,
		UserAgent:        DefaultUserAgent,
		Extractor:        ExtractorReadability,
		RequestTimeout:   DefaultRequestTimeout,
		AssetConcurrency: DefaultAssetConcurrency,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Validate returns an EINVALID error describing the first invalid option.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return Errorf(EINVALID, "target_url required")
	}
	u, err := url.Parse(c.TargetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "target_url must be an absolute http(s) URL: %q", c.TargetURL)
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output_dir required")
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max_depth must not be negative")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max_pages must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return Errorf(EINVALID, "request_timeout must be positive")
	}
	if c.RunTimeout < 0 {
		return Errorf(EINVALID, "run_timeout must not be negative")
	}
	if c.AssetConcurrency < 1 {
		return Errorf(EINVALID, "asset_concurrency must be at least 1")
	}
	if !slices.Contains([]string{ExtractorReadability, ExtractorTrafilatura}, c.Extractor) {
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return Errorf(EINVALID, "unknown log_level %q", c.LogLevel)
	}
	if !slices.Contains([]string{"text", "json"}, c.LogFormat) {
		return Errorf(EINVALID, "unknown log_format %q", c.LogFormat)
	}
	return nil
}
