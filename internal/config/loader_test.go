package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoadFile tests YAML configuration loading.
func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, `
subdomains:
  - https://docs.example.com
  - https://blog.example.com
interval: 30m
depth: 5
max_pages: 100
timeout: 20s
extractor: rendered
user_agent: custom-agent/2.0
max_body_size: 1048576
concurrency: 3
output: /tmp/sitemap.xml
journal: /tmp/journal.db
listen: ":9090"
`)

		f, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.Subdomains) != 2 {
			t.Errorf("expected 2 subdomains, got %d", len(f.Subdomains))
		}
		if f.Interval.Duration != 30*time.Minute {
			t.Errorf("expected 30m interval, got %s", f.Interval.Duration)
		}
		if f.Depth == nil || *f.Depth != 5 {
			t.Errorf("expected depth 5, got %v", f.Depth)
		}
		if f.MaxPages == nil || *f.MaxPages != 100 {
			t.Errorf("expected max_pages 100, got %v", f.MaxPages)
		}
		if f.Timeout.Duration != 20*time.Second {
			t.Errorf("expected 20s timeout, got %s", f.Timeout.Duration)
		}
		if f.Extractor != "rendered" {
			t.Errorf("expected rendered extractor, got %q", f.Extractor)
		}
		if f.Concurrency == nil || *f.Concurrency != 3 {
			t.Errorf("expected concurrency 3, got %v", f.Concurrency)
		}
		if f.Listen != ":9090" {
			t.Errorf("expected listen :9090, got %q", f.Listen)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "subdomains: [unclosed")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestConfigApply tests merging file values over defaults.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		depth := 3
		cfg.Apply(&File{
			Subdomains: []string{"https://a.example.com"},
			Interval:   Duration{15 * time.Minute},
			Depth:      &depth,
			Output:     "/srv/sitemap.xml",
		})

		if len(cfg.Subdomains) != 1 || cfg.Subdomains[0] != "https://a.example.com" {
			t.Errorf("subdomains not applied: %v", cfg.Subdomains)
		}
		if cfg.Interval != 15*time.Minute {
			t.Errorf("interval not applied: %s", cfg.Interval)
		}
		if cfg.MaxDepth != 3 {
			t.Errorf("depth not applied: %d", cfg.MaxDepth)
		}
		if cfg.SitemapPath != "/srv/sitemap.xml" {
			t.Errorf("output not applied: %q", cfg.SitemapPath)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{Subdomains: []string{"https://a.example.com"}})

		if cfg.MaxDepth != DefaultMaxDepth {
			t.Errorf("depth changed unexpectedly: %d", cfg.MaxDepth)
		}
		if cfg.FetchTimeout != DefaultFetchTimeout {
			t.Errorf("timeout changed unexpectedly: %s", cfg.FetchTimeout)
		}
		if cfg.Extractor != ExtractorStatic {
			t.Errorf("extractor changed unexpectedly: %q", cfg.Extractor)
		}
	})

	t.Run("zero depth override applies", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		depth := 0
		cfg.Apply(&File{Depth: &depth})

		if cfg.MaxDepth != 0 {
			t.Errorf("expected depth 0, got %d", cfg.MaxDepth)
		}
	})

	t.Run("journal off disables journal", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{Journal: "off"})

		if cfg.JournalPath != "" {
			t.Errorf("expected empty journal path, got %q", cfg.JournalPath)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(nil)

		if cfg.MaxDepth != DefaultMaxDepth {
			t.Errorf("config changed by nil file: %d", cfg.MaxDepth)
		}
	})
}

// TestFindConfigFile tests configuration file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path found", func(t *testing.T) {
		path := writeConfigFile(t, "subdomains: []\n")

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path missing returns empty", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.yaml")

		if got := FindConfigFile(missing); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}
