package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brinisSoftArchitect/xml-generator/internal/config"
	"github.com/brinisSoftArchitect/xml-generator/internal/model"
	"github.com/brinisSoftArchitect/xml-generator/internal/pipeline"
	"github.com/brinisSoftArchitect/xml-generator/internal/scheduler"
	"github.com/brinisSoftArchitect/xml-generator/internal/server"
	"github.com/brinisSoftArchitect/xml-generator/internal/sitemap"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [subdomain...]",
		Short: "Crawl on a schedule and serve the sitemap over HTTP",
		Long: `Serve runs the crawl on a repeating schedule and exposes the result
over HTTP.

One crawl run starts immediately, then one per interval. Each run
rewrites the sitemap from scratch; a failed run leaves the previous
sitemap in place and the next run starts on schedule regardless.

HTTP endpoints:
  GET /sitemap.xml   the most recently persisted sitemap
  GET /status        last and next run as JSON
  GET /healthz       liveness probe

Examples:
  # Serve with an hourly crawl of one subdomain
  xml-generator serve https://docs.example.com

  # Crawl every 15 minutes and listen on a custom port
  xml-generator serve -i 15m -l :9090 https://docs.example.com

  # Everything from a configuration file
  xml-generator serve -c .xml-generator`,
		Args: cobra.ArbitraryArgs,
		RunE: runServeCmd,
	}

	addCrawlFlags(cmd)

	cmd.Flags().DurationP("interval", "i", config.DefaultInterval,
		"Pause between scheduled crawl runs")
	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"HTTP listen address")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("interval") {
		if cfg.Interval, err = cmd.Flags().GetDuration("interval"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("listen") {
		if cfg.ListenAddr, err = cmd.Flags().GetString("listen"); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	store := sitemap.NewStore(cfg.SitemapPath)
	spider := newSpider(cfg, extractor, store, logger)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		&pipeline.CrawlStep{Spider: spider},
		&pipeline.SitemapStep{Store: store},
		&pipeline.JournalStep{Journal: jrnl},
	)

	runFn := func(ctx context.Context) (*model.Run, error) {
		run := model.NewRun(cfg.Subdomains)
		err := p.Execute(ctx, run)
		return run, err
	}

	sched := scheduler.New(cfg.Interval, runFn, scheduler.WithLogger(logger))
	srv := server.New(cfg.SitemapPath, sched, server.WithLogger(logger))

	logger.Info("starting",
		"subdomains", cfg.Subdomains,
		"interval", cfg.Interval,
		"listen", cfg.ListenAddr,
		"sitemap", cfg.SitemapPath,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sched.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.ListenAddr)
	})

	return g.Wait()
}
