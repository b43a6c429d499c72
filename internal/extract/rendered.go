package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
)

// RenderedOptions configures the headless-browser extractor.
type RenderedOptions struct {
	// Timeout bounds each page render, navigation included.
	// Defaults to 30s.
	Timeout time.Duration

	// UserAgent overrides the browser's User-Agent header.
	UserAgent string

	// Sessions is the maximum number of concurrent browser tabs.
	// Defaults to 1.
	Sessions int

	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

// Rendered extracts links from the DOM produced by loading the page in
// headless Chrome, so links that only exist after script execution are
// found too. The rendered markup then goes through the same extraction
// channels as the static backend, and the raw-scan channel additionally
// covers the unrendered body.
//
// One browser allocator is created per process lifetime and must be
// released with Close on shutdown.
type Rendered struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	sem         chan struct{}
	logger      *slog.Logger
}

// NewRendered creates the extractor and its long-lived browser
// allocator. The browser itself starts lazily on the first Extract.
func NewRendered(opts RenderedOptions) *Rendered {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Sessions <= 0 {
		opts.Sessions = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)

	return &Rendered{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     opts.Timeout,
		sem:         make(chan struct{}, opts.Sessions),
		logger:      opts.Logger,
	}
}

// Extract renders the page and returns candidate URLs from the rendered
// DOM plus same-host literals from the original body.
func (r *Rendered) Extract(ctx context.Context, pageURL string, body []byte) ([]string, error) {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rendered, err := r.render(pageURL)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}

	links, err := NewStatic().Extract(ctx, pageURL, []byte(rendered))
	if err != nil {
		return nil, err
	}

	// The raw-scan channel also covers the unrendered body: JSON
	// payloads stripped during rendering may still name same-host
	// pages.
	base, err := url.Parse(pageURL)
	if err != nil {
		return links, nil
	}
	set := newURLSet(base)
	for _, l := range links {
		set.add(l)
	}
	scanRaw(set, body)

	return set.urls(), nil
}

// render navigates a fresh browser tab to the URL and returns the
// document's outer HTML once the DOM settles.
func (r *Rendered) render(pageURL string) (string, error) {
	taskCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
	defer cancel()

	start := time.Now()
	var rendered string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	r.logger.Debug("page rendered",
		"url", pageURL,
		"duration", time.Since(start),
		"bytes", len(rendered),
	)

	return rendered, nil
}

// Close releases the browser allocator. Must be called before process
// exit so no orphaned Chrome processes remain.
func (r *Rendered) Close() {
	r.allocCancel()
}
