package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	// ErrNoSeeds is returned when no crawl root seed URLs are configured.
	ErrNoSeeds = errors.New("config: no seed URLs configured (set subdomains in the config file)")

	// ErrInvalidDepth is returned when the crawl depth is negative.
	ErrInvalidDepth = errors.New("config: crawl depth must not be negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	ErrInvalidMaxPages = errors.New("config: max pages must not be negative")

	// ErrInvalidTimeout is returned when the fetch timeout is zero or negative.
	ErrInvalidTimeout = errors.New("config: fetch timeout must be positive")

	// ErrInvalidInterval is returned when the crawl interval is zero or negative.
	ErrInvalidInterval = errors.New("config: crawl interval must be positive")

	// ErrUnknownExtractor is returned when the extractor name is neither
	// "static" nor "rendered".
	ErrUnknownExtractor = errors.New(`config: extractor must be "static" or "rendered"`)

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("config: max body size must not be negative")

	// ErrInvalidConcurrency is returned when concurrency is zero or negative.
	ErrInvalidConcurrency = errors.New("config: concurrency must be positive")

	// ErrNoSitemapPath is returned when no sitemap output path is set.
	ErrNoSitemapPath = errors.New("config: sitemap output path must not be empty")
)
