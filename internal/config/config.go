package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for a low-traffic operational tool that re-crawls a
// handful of small sites on a timer, not for high-volume crawling.
const (
	// DefaultMaxDepth limits how many hops from a crawl root a page may
	// be before it is skipped. Ten levels is enough to reach every page
	// of a typical site while guaranteeing termination on pathological
	// link graphs (calendars, faceted navigation).
	DefaultMaxDepth = 10

	// DefaultFetchTimeout bounds each individual page fetch. A single
	// slow page must not stall the whole run; the branch is abandoned
	// and the run continues.
	DefaultFetchTimeout = 15 * time.Second

	// DefaultInterval is the pause between full crawl runs. A run also
	// executes immediately at process start.
	DefaultInterval = time.Hour

	// DefaultMaxBodySize limits the response body read per page. 5MB is
	// generous for HTML while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultConcurrency is the number of fetches in flight at once.
	// One matches the reference behavior: depth-first, one outstanding
	// request, trivially race-free. Higher values are safe because the
	// visited set is mutex-guarded.
	DefaultConcurrency = 1

	// DefaultMaxPages caps the total number of URLs dispatched per run.
	// Zero means unlimited; the depth limit and visited set remain the
	// only runaway guards in that case.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies the generator in HTTP requests so
	// site operators can recognize the traffic in their logs.
	DefaultUserAgent = "xml-generator/1.0 (+https://github.com/brinisSoftArchitect/xml-generator)"

	// DefaultListenAddr is where the serving boundary (sitemap file and
	// status endpoint) listens.
	DefaultListenAddr = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "xml-generator"

	// SitemapFileName is the name of the persisted sitemap document.
	SitemapFileName = "sitemap.xml"

	// JournalFileName is the name of the crawl journal database.
	JournalFileName = "journal.db"
)

// Extraction backend names accepted in configuration.
const (
	// ExtractorStatic parses the HTML returned by the HTTP fetch.
	// Cheap, no script execution; misses content generated client-side.
	ExtractorStatic = "static"

	// ExtractorRendered loads the page in headless Chrome and extracts
	// links from the rendered DOM. Handles script-generated content at
	// the cost of a browser process.
	ExtractorRendered = "rendered"
)

// Config holds all configuration options for the sitemap generator.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ServeConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Subdomains is the ordered list of crawl root seed URLs. Each root
	// defines the domain scope for everything reached from it.
	Subdomains []string

	// MaxDepth is the maximum number of hops from a crawl root.
	MaxDepth int

	// MaxPages caps the total URLs dispatched per run. 0 = unlimited.
	MaxPages int

	// FetchTimeout bounds each individual page fetch.
	FetchTimeout time.Duration

	// Interval is the pause between scheduled crawl runs.
	Interval time.Duration

	// Extractor selects the link-extraction backend:
	// ExtractorStatic or ExtractorRendered.
	Extractor string

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Concurrency is the number of fetches in flight at once. Values
	// above 1 parallelize the traversal; the at-most-once-visit
	// invariant is preserved by the engine regardless.
	Concurrency int

	// SitemapPath is where the sitemap document is persisted. The file
	// is rewritten after every page visit so partial progress survives
	// a crash mid-crawl.
	SitemapPath string

	// JournalPath is where the crawl journal (SQLite) lives. Empty
	// disables the journal; crawling itself never depends on it.
	JournalPath string

	// ListenAddr is the serve command's HTTP listen address.
	ListenAddr string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path the configuration was loaded from,
	// empty when only defaults and flags were used.
	ConfigFilePath string
}

// NewConfig creates a Config populated with defaults.
//
// Design decision: We use a constructor instead of relying on zero
// values because most defaults are non-zero (timeouts, depth, paths).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:     DefaultMaxDepth,
		MaxPages:     DefaultMaxPages,
		FetchTimeout: DefaultFetchTimeout,
		Interval:     DefaultInterval,
		Extractor:    ExtractorStatic,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		Concurrency:  DefaultConcurrency,
		SitemapPath:  filepath.Join(XDGDataDir(), SitemapFileName),
		JournalPath:  filepath.Join(XDGDataDir(), JournalFileName),
		ListenAddr:   DefaultListenAddr,
	}
}

// XDGDataDir returns the XDG data directory for the generator.
// On Linux: ~/.local/share/xml-generator
// On macOS: ~/Library/Application Support/xml-generator
// On Windows: %LOCALAPPDATA%\xml-generator
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the generator.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned rather than collecting all errors,
// because fixing one often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Subdomains) == 0 {
		return ErrNoSeeds
	}

	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Interval <= 0 {
		return ErrInvalidInterval
	}

	if c.Extractor != ExtractorStatic && c.Extractor != ExtractorRendered {
		return ErrUnknownExtractor
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.SitemapPath == "" {
		return ErrNoSitemapPath
	}

	return nil
}
