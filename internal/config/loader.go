package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".xml-generator"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML representation of the configuration.
// Only Subdomains is required; everything else falls back to defaults.
//
// Example:
//
//	subdomains:
//	  - https://docs.example.com
//	  - https://blog.example.com
//	interval: 1h
//	depth: 10
//	extractor: static
type File struct {
	// Subdomains is the ordered list of crawl root seed URLs.
	Subdomains []string `yaml:"subdomains"`

	// Interval between scheduled crawl runs.
	Interval Duration `yaml:"interval,omitempty"`

	// Depth is the maximum number of hops from a crawl root.
	// A nil value keeps the default.
	Depth *int `yaml:"depth,omitempty"`

	// MaxPages caps the total URLs dispatched per run. 0 = unlimited.
	MaxPages *int `yaml:"max_pages,omitempty"`

	// Timeout bounds each individual page fetch.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Extractor selects the link-extraction backend ("static" or "rendered").
	Extractor string `yaml:"extractor,omitempty"`

	// UserAgent overrides the HTTP User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize *int64 `yaml:"max_body_size,omitempty"`

	// Concurrency is the number of fetches in flight at once.
	Concurrency *int `yaml:"concurrency,omitempty"`

	// Output is the sitemap file path.
	Output string `yaml:"output,omitempty"`

	// Journal is the crawl journal database path. "off" disables it.
	Journal string `yaml:"journal,omitempty"`

	// Listen is the serve command's HTTP listen address.
	Listen string `yaml:"listen,omitempty"`
}

// LoadFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this based on whether the path was explicitly
// specified by the user.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &f, nil
}

// Apply merges file values into the Config. Unset file fields leave the
// existing (default or flag-provided) values untouched.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}

	if len(f.Subdomains) > 0 {
		c.Subdomains = f.Subdomains
	}
	if !f.Interval.IsZero() {
		c.Interval = f.Interval.Duration
	}
	if f.Depth != nil {
		c.MaxDepth = *f.Depth
	}
	if f.MaxPages != nil {
		c.MaxPages = *f.MaxPages
	}
	if !f.Timeout.IsZero() {
		c.FetchTimeout = f.Timeout.Duration
	}
	if f.Extractor != "" {
		c.Extractor = f.Extractor
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != nil {
		c.MaxBodySize = *f.MaxBodySize
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.Output != "" {
		c.SitemapPath = f.Output
	}
	switch f.Journal {
	case "":
	case "off":
		c.JournalPath = ""
	default:
		c.JournalPath = f.Journal
	}
	if f.Listen != "" {
		c.ListenAddr = f.Listen
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. .xml-generator in the current directory
//  3. .xml-generator in the XDG config directory
//  4. .xml-generator in the user's home directory
//
// Returns the path to the configuration file if found, or "" if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
