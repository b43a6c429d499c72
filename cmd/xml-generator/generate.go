package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
	"github.com/brinisSoftArchitect/xml-generator/internal/pipeline"
	"github.com/brinisSoftArchitect/xml-generator/internal/report"
	"github.com/brinisSoftArchitect/xml-generator/internal/sitemap"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [subdomain...]",
		Short: "Crawl the configured subdomains once and write sitemap.xml",
		Long: `Generate performs a single crawl run over the configured subdomains
and writes the discovered URLs to sitemap.xml.

Each subdomain is crawled within its own host: links leading to a
different host are recorded only if another subdomain covers that host.
The sitemap file is rewritten after every page visit, so partial
progress survives an interrupted run.

Examples:
  # Crawl one subdomain
  xml-generator generate https://docs.example.com

  # Crawl several subdomains into one sitemap
  xml-generator generate https://docs.example.com https://blog.example.com

  # Use a configuration file
  xml-generator generate -c .xml-generator

  # Use the headless-browser extractor for script-generated links
  xml-generator generate --extractor rendered https://app.example.com

  # Write a Markdown crawl report next to the sitemap
  xml-generator generate -m -r report.md https://docs.example.com

Configuration file (.xml-generator) example:
  subdomains:
    - https://docs.example.com
    - https://blog.example.com
  depth: 10
  extractor: static`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	addCrawlFlags(cmd)

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON crawl report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown crawl report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Write the crawl report to the specified file instead of stdout")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	extractor, closeExtractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}
	defer closeExtractor()

	jrnl, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}
	if jrnl != nil {
		defer jrnl.Close()
	}

	writer, closeReport, err := buildReportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeReport()

	store := sitemap.NewStore(cfg.SitemapPath)
	spider := newSpider(cfg, extractor, store, logger)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		&pipeline.CrawlStep{Spider: spider},
		&pipeline.SitemapStep{Store: store},
		&pipeline.JournalStep{Journal: jrnl},
		&pipeline.ReportStep{Writer: writer},
	)

	run := model.NewRun(cfg.Subdomains)

	fmt.Printf("Crawling %d subdomain(s)...\n", len(cfg.Subdomains))
	start := time.Now()

	execErr := p.Execute(ctx, run)

	if execErr != nil {
		return fmt.Errorf("crawl run failed: %w", execErr)
	}

	fmt.Printf("Sitemap written to %s (%d URLs, %s)\n",
		run.SitemapPath, len(run.Discovered), time.Since(start).Round(time.Millisecond))

	return nil
}

// buildReportWriter creates the report writer selected by the report
// flags. The returned cleanup closes the report file, if one was
// opened.
func buildReportWriter(cmd *cobra.Command) (pipeline.ReportWriter, func(), error) {
	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, nil, err
	}
	reportFile, err := cmd.Flags().GetString("report-file")
	if err != nil {
		return nil, nil, err
	}

	if jsonReport && markdownReport {
		return nil, nil, fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	output := os.Stdout
	cleanup := func() {}
	if reportFile != "" {
		dir := filepath.Dir(reportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Crawl reports hold no secrets
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create report file: %w", err)
		}
		output = f
		cleanup = func() { _ = f.Close() }
	}

	switch {
	case jsonReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), cleanup, nil
	case markdownReport:
		return report.NewMarkdownWriter(output), cleanup, nil
	default:
		return report.NewSimpleWriter(output), cleanup, nil
	}
}
