package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// context driving ListenAndServe is cancelled.
const shutdownTimeout = 5 * time.Second

// RunSource reports scheduling state for the /status endpoint.
type RunSource interface {
	// LastRun returns the most recent run, nil before the first finishes.
	LastRun() *model.Run
	// NextRun returns when the next run is scheduled to start.
	NextRun() time.Time
}

// Server serves the sitemap file and crawl status over HTTP.
type Server struct {
	router      *chi.Mux
	sitemapPath string
	source      RunSource
	logger      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server that serves the sitemap at sitemapPath and
// status derived from source.
func New(sitemapPath string, source RunSource, opts ...Option) *Server {
	s := &Server{
		sitemapPath: sitemapPath,
		source:      source,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/status", s.handleStatus)
	r.Get("/healthz", s.handleHealthz)

	s.router = r
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until the context is cancelled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server started", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleSitemap serves the persisted sitemap file. Before the first
// write the file does not exist yet, which is a 404, not an error.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.sitemapPath); err != nil {
		http.Error(w, "sitemap not generated yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	http.ServeFile(w, r, s.sitemapPath)
}

// statusResponse is the JSON body of the /status endpoint.
type statusResponse struct {
	State        string     `json:"state"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	LastRun      *lastRun   `json:"last_run,omitempty"`
	SitemapReady bool       `json:"sitemap_ready"`
}

type lastRun struct {
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	State        string     `json:"state"`
	URLs         int        `json:"urls"`
	PagesVisited int        `json:"pages_visited"`
	PagesFailed  int        `json:"pages_failed"`
	Error        string     `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{State: "idle"}

	if _, err := os.Stat(s.sitemapPath); err == nil {
		resp.SitemapReady = true
	}

	if s.source != nil {
		if next := s.source.NextRun(); !next.IsZero() {
			resp.NextRun = &next
		}
		if run := s.source.LastRun(); run != nil {
			resp.State = string(run.State)
			lr := &lastRun{
				StartedAt:    run.StartedAt,
				State:        string(run.State),
				URLs:         len(run.Discovered),
				PagesVisited: run.PagesVisited(),
				PagesFailed:  run.PagesFailed(),
				Error:        run.Err,
			}
			if !run.FinishedAt.IsZero() {
				finished := run.FinishedAt
				lr.FinishedAt = &finished
			}
			resp.LastRun = lr
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode status response", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
