package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// Extractor is the link-extraction collaborator boundary. Given a
// fetched page's URL and raw body, it returns candidate absolute URL
// strings. How the candidates are found (static HTML parsing, rendered
// DOM traversal) is an interchangeable strategy; the engine only relies
// on the contract.
type Extractor interface {
	Extract(ctx context.Context, pageURL string, body []byte) ([]string, error)
}

// PersistFunc receives the current discovered set, sorted, every time a
// new URL is dispatched. Implementations must write atomically (write
// temp then rename) because the function is called once per page visit,
// mid-crawl.
type PersistFunc func(urls []string) error

// skippedExtensions lists path extensions that are never pages:
// images, archives, stylesheets, scripts, and PDFs. Links to these are
// dropped before they reach the queue.
var skippedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {},
	".webp": {}, ".ico": {}, ".bmp": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".rar": {}, ".7z": {},
	".css": {}, ".js": {}, ".mjs": {},
	".pdf": {},
}

// Spider is the crawl engine. It discovers every same-host page
// reachable from a set of seed roots, within the depth limit, visiting
// each page at most once per run.
//
// A Spider is reusable: Run clears all per-run state before traversing.
// It is not safe to call Run concurrently on the same Spider.
type Spider struct {
	// client performs page fetches. Shared across runs; created once
	// per process lifetime.
	client *http.Client

	// extractor finds candidate links in fetched pages.
	extractor Extractor

	// persist, when set, is invoked synchronously with the discovered
	// set each time a URL is dispatched, before its fetch. This is what
	// makes partial progress survive a crash mid-crawl.
	persist PersistFunc

	// maxDepth limits hops from a crawl root. The root itself is depth 0.
	maxDepth int

	// maxPages caps the total URLs dispatched per run. 0 = unlimited.
	maxPages int

	// fetchTimeout bounds each individual page fetch.
	fetchTimeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize limits the response body read per page.
	maxBodySize int64

	// concurrency is the number of crawl branches in flight at once.
	// 1 reproduces the reference depth-first, one-fetch-at-a-time
	// behavior exactly.
	concurrency int

	logger *slog.Logger

	// mu guards visited and visits. Check-and-mark-visited must be
	// atomic with respect to concurrent branches or a URL could be
	// fetched twice.
	mu      sync.Mutex
	visited map[string]bool
	visits  []*model.PageVisit

	// persistMu serializes incremental persistence so writers never
	// interleave and snapshots are written in the order they are taken.
	persistMu sync.Mutex
}

// Option configures a Spider.
type Option func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the roots, 1 = roots plus directly linked pages, etc.
func WithMaxDepth(depth int) Option {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages caps the total number of URLs dispatched per run.
// 0 disables the cap.
func WithMaxPages(n int) Option {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithFetchTimeout bounds each individual page fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Spider) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithConcurrency sets the number of crawl branches in flight at once.
func WithConcurrency(n int) Option {
	return func(s *Spider) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithPersistFunc sets the incremental persistence hook.
func WithPersistFunc(fn PersistFunc) Option {
	return func(s *Spider) {
		s.persist = fn
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that fetches with the given HTTP client
// and discovers links with the given extractor.
//
// Design decision: We require an external client because:
//  1. Transport configuration (proxies, TLS) is the caller's concern
//  2. Tests can inject httptest clients
//  3. The client is a per-process resource shared across runs
func NewSpider(client *http.Client, extractor Extractor, opts ...Option) *Spider {
	s := &Spider{
		client:       client,
		extractor:    extractor,
		maxDepth:     10,
		fetchTimeout: 15 * time.Second,
		userAgent:    "xml-generator/1.0",
		maxBodySize:  5 * 1024 * 1024, // 5MB
		concurrency:  1,
		visited:      make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Run executes one full crawl across the run's roots, sharing a single
// visited/discovered set between them. State from any previous run is
// cleared first. On return the run's Discovered and Visits fields are
// populated, even when an error cut the traversal short.
//
// Roots are processed in order, each crawled to exhaustion (bounded by
// the depth limit) before the next starts. Only persistence failures
// and context cancellation abort a run; per-page fetch failures never
// do.
func (s *Spider) Run(ctx context.Context, run *model.Run) error {
	s.reset()

	var runErr error
	for _, root := range run.Roots {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)

		g.Go(func() error {
			return s.crawl(gctx, g, root, root, 0)
		})

		if err := g.Wait(); err != nil {
			runErr = fmt.Errorf("crawl root %s: %w", root, err)
			break
		}
	}

	run.Discovered = s.Discovered()
	run.Visits = s.Visits()
	return runErr
}

// crawl is one state transition of the engine: guard, mark, persist,
// fetch, extract, recurse. Fetch and extraction failures terminate only
// this branch; the returned error is reserved for failures that must
// abort the whole traversal (persistence, cancellation).
func (s *Spider) crawl(ctx context.Context, g *errgroup.Group, rawURL, root string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := Normalize(rawURL)
	if err != nil {
		// Malformed URLs are dropped at the normalization boundary,
		// never propagated.
		s.logger.Debug("dropping invalid URL", "url", rawURL)
		return nil
	}

	if depth > s.maxDepth {
		return nil
	}

	if !InScope(key, root) {
		return nil
	}

	// Atomic check-and-mark: at most one branch dispatches a given URL.
	if !s.markVisited(key) {
		return nil
	}

	// Persist BEFORE fetching so this URL survives a crash or failure
	// later in the run.
	if err := s.persistDiscovered(); err != nil {
		return fmt.Errorf("persist discovered set: %w", err)
	}

	visit := &model.PageVisit{
		URL:       key,
		Root:      root,
		Depth:     depth,
		FetchedAt: time.Now().UTC(),
	}

	body, err := s.fetch(ctx, key, visit)
	if err != nil {
		visit.Err = err.Error()
		s.recordVisit(visit)
		s.logger.Warn("fetch failed, abandoning branch",
			"url", key,
			"depth", depth,
			"error", err,
		)
		return nil
	}

	links, err := s.extractor.Extract(ctx, key, body)
	if err != nil {
		// Unparseable content counts as zero links. The page stays
		// discovered: it was successfully reached.
		s.logger.Warn("link extraction failed",
			"url", key,
			"error", err,
		)
		links = nil
	}

	visit.LinksFound = len(links)
	s.recordVisit(visit)

	for _, link := range links {
		// Links carrying a fragment marker address positions inside
		// pages already reachable without it.
		if strings.Contains(link, "#") {
			continue
		}

		candidate, err := Normalize(link)
		if err != nil {
			continue
		}
		if !InScope(candidate, root) {
			continue
		}
		if hasSkippedExtension(candidate) {
			continue
		}
		// Cheap pre-check; the recursive call re-checks atomically.
		if s.isVisited(candidate) {
			continue
		}

		// Hand the branch to the pool when a worker is free, otherwise
		// crawl inline. Inline fallback keeps the pool deadlock-free
		// and, with concurrency 1, reproduces the reference behavior:
		// sequential depth-first traversal.
		if !g.TryGo(func() error {
			return s.crawl(ctx, g, candidate, root, depth+1)
		}) {
			if err := s.crawl(ctx, g, candidate, root, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// fetch performs a single bounded-timeout page fetch. It fills the
// visit's response metadata as a side effect so failed fetches still
// carry their status code and timing.
func (s *Spider) fetch(ctx context.Context, pageURL string, visit *model.PageVisit) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		visit.Duration = time.Since(start)
		return nil, err
	}
	defer resp.Body.Close()

	visit.StatusCode = resp.StatusCode
	mediaType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	visit.ContentType = strings.TrimSpace(mediaType)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		visit.Duration = time.Since(start)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if !isHTMLContentType(visit.ContentType) {
		visit.Duration = time.Since(start)
		return nil, fmt.Errorf("non-HTML content type %q", visit.ContentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	visit.Duration = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// isHTMLContentType reports whether the media type is crawlable markup.
func isHTMLContentType(mediaType string) bool {
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// hasSkippedExtension reports whether the URL's path ends in a known
// non-page file extension.
func hasSkippedExtension(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	_, skip := skippedExtensions[ext]
	return skip
}

// markVisited marks a URL visited if it is new and the page cap allows
// it. Returns false when the URL must not be dispatched.
func (s *Spider) markVisited(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[key] {
		return false
	}
	if s.maxPages > 0 && len(s.visited) >= s.maxPages {
		return false
	}
	s.visited[key] = true
	return true
}

// isVisited checks if a URL has been dispatched already.
func (s *Spider) isVisited(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visited[key]
}

// recordVisit appends a visit outcome to the run's log.
func (s *Spider) recordVisit(v *model.PageVisit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append(s.visits, v)
}

// persistDiscovered writes the current discovered set through the
// persistence hook. The snapshot is taken while holding persistMu so
// successive writes are monotonic: a later write never carries an
// earlier, smaller set.
func (s *Spider) persistDiscovered() error {
	if s.persist == nil {
		return nil
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persist(s.Discovered())
}

// Discovered returns the discovered set, sorted lexicographically.
// Identical to the visited set: every discovered in-scope URL is
// dispatched for fetch, subject to the depth limit.
func (s *Spider) Discovered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	urls := make([]string, 0, len(s.visited))
	for u := range s.visited {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Visits returns the outcome of every fetch attempted so far this run.
func (s *Spider) Visits() []*model.PageVisit {
	s.mu.Lock()
	defer s.mu.Unlock()
	visits := make([]*model.PageVisit, len(s.visits))
	copy(visits, s.visits)
	return visits
}

// reset clears all per-run state.
func (s *Spider) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited = make(map[string]bool)
	s.visits = nil
}
