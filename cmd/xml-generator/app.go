package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/brinisSoftArchitect/xml-generator/internal/config"
	"github.com/brinisSoftArchitect/xml-generator/internal/crawler"
	"github.com/brinisSoftArchitect/xml-generator/internal/extract"
	"github.com/brinisSoftArchitect/xml-generator/internal/journal"
	applog "github.com/brinisSoftArchitect/xml-generator/internal/log"
	"github.com/brinisSoftArchitect/xml-generator/internal/sitemap"
)

// addCrawlFlags registers the flags shared by generate and serve.
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .xml-generator in current dir, XDG config dir, or home)")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per run (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("extractor", "e", config.ExtractorStatic,
		`Link extraction backend: "static" or "rendered" (headless browser)`)
	cmd.Flags().StringP("output", "o", "",
		"Sitemap output file path (default: sitemap.xml in the XDG data directory)")
	cmd.Flags().String("journal", "",
		`Crawl journal database path ("off" disables the journal)`)
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of page fetches in flight at once")
}

// buildConfig resolves the effective configuration: defaults, then the
// configuration file, then explicitly set flags, then positional
// arguments as the seed list.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = config.FindConfigFile(configPath)

	// An explicitly named config file must exist; an absent default
	// location is fine.
	if configPath != "" && cfg.ConfigFilePath == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if cfg.ConfigFilePath != "" {
		f, err := config.LoadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, err
		}
		cfg.Apply(f)
	}

	// Flags override the file only when the user actually set them.
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Subdomains = args
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyFlagOverrides copies explicitly set flag values into the config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cmd.Flags().Changed("depth") {
		if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("max-pages") {
		if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("extractor") {
		if cfg.Extractor, err = cmd.Flags().GetString("extractor"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("output") {
		if cfg.SitemapPath, err = cmd.Flags().GetString("output"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("journal") {
		journalPath, err := cmd.Flags().GetString("journal")
		if err != nil {
			return err
		}
		if journalPath == "off" {
			cfg.JournalPath = ""
		} else {
			cfg.JournalPath = journalPath
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
	}

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting structured logger and installs it
// as the process default.
func setupLogger(verbose bool) *slog.Logger {
	logger := applog.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// newExtractor creates the configured link-extraction backend. The
// returned cleanup releases backend resources and must be called before
// process exit.
func newExtractor(cfg *config.Config, logger *slog.Logger) (crawler.Extractor, func(), error) {
	switch cfg.Extractor {
	case config.ExtractorStatic:
		return extract.NewStatic(), func() {}, nil
	case config.ExtractorRendered:
		r := extract.NewRendered(extract.RenderedOptions{
			Timeout:   2 * cfg.FetchTimeout,
			UserAgent: cfg.UserAgent,
			Sessions:  cfg.Concurrency,
			Logger:    logger,
		})
		return r, r.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownExtractor, cfg.Extractor)
	}
}

// newSpider assembles the crawl engine with incremental persistence
// into the sitemap store.
func newSpider(cfg *config.Config, extractor crawler.Extractor, store *sitemap.Store, logger *slog.Logger) *crawler.Spider {
	return crawler.NewSpider(
		&http.Client{},
		extractor,
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithFetchTimeout(cfg.FetchTimeout),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithPersistFunc(func(urls []string) error {
			return store.Write(urls, time.Now())
		}),
		crawler.WithLogger(logger),
	)
}

// openJournal opens the crawl journal if one is configured. A nil
// return with nil error means the journal is disabled.
func openJournal(cfg *config.Config, logger *slog.Logger) (*journal.Journal, error) {
	if cfg.JournalPath == "" {
		return nil, nil
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	logger.Info("journal opened", "path", cfg.JournalPath)
	return j, nil
}
