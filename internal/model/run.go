package model

import (
	"time"
)

// RunState describes where a crawl run is in its lifecycle.
type RunState string

// Run states. A run is created in RunStateRunning and ends in exactly one
// of the terminal states.
const (
	// RunStateRunning means the run is currently traversing its roots.
	RunStateRunning RunState = "running"

	// RunStateCompleted means the run traversed every root and the final
	// sitemap write succeeded.
	RunStateCompleted RunState = "completed"

	// RunStateFailed means an error escaped the run (for example a
	// persistence failure on the completion step). The process keeps
	// running; only this run is marked failed.
	RunStateFailed RunState = "failed"
)

// PageVisit records the outcome of fetching a single page during a run.
//
// Design decision: We record failed fetches alongside successful ones
// because a URL stays in the discovered set (and therefore in the sitemap)
// once it has been dispatched, even when the fetch later fails. Keeping
// both outcomes in one type makes the journal schema and the run report
// straightforward.
type PageVisit struct {
	// URL is the normalized URL that was fetched.
	URL string `json:"url"`

	// Root is the crawl root this URL was reached from.
	Root string `json:"root"`

	// Depth is the number of hops from the root.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status code, or 0 when the request
	// never produced a response (timeout, connection error).
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the MIME type of the response, without parameters.
	ContentType string `json:"content_type,omitempty"`

	// FetchedAt is when the fetch was attempted.
	FetchedAt time.Time `json:"fetched_at"`

	// Duration is how long the fetch took, including body read.
	Duration time.Duration `json:"duration"`

	// LinksFound is the number of candidate links the extractor returned.
	LinksFound int `json:"links_found"`

	// Err holds the fetch or extraction failure, empty on success.
	Err string `json:"error,omitempty"`
}

// OK reports whether the page was fetched successfully.
func (v *PageVisit) OK() bool {
	return v.Err == ""
}

// Run accumulates the state of one crawl run from "clear state" to
// "sitemap written". A fresh Run is constructed for every scheduled cycle;
// nothing survives across runs except what is re-derived from the config.
type Run struct {
	// ID is the journal row ID once the run has been recorded, 0 before.
	ID int64 `json:"id,omitempty"`

	// Roots are the seed URLs this run traverses, in configured order.
	Roots []string `json:"roots"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended, zero while running.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// State is the run's lifecycle state.
	State RunState `json:"state"`

	// Discovered is the sorted set of normalized URLs that will appear in
	// the sitemap. Identical to the visited set: every discovered in-scope
	// URL is dispatched for fetch, subject to the depth limit.
	Discovered []string `json:"discovered"`

	// Visits holds the outcome of every fetch attempted during the run.
	Visits []*PageVisit `json:"visits,omitempty"`

	// SitemapPath is where the sitemap document was persisted.
	SitemapPath string `json:"sitemap_path,omitempty"`

	// Err holds the run-level failure, empty on success.
	Err string `json:"error,omitempty"`
}

// NewRun creates a Run for the given roots, stamped with the current time.
func NewRun(roots []string) *Run {
	return &Run{
		Roots:     roots,
		StartedAt: time.Now().UTC(),
		State:     RunStateRunning,
	}
}

// Complete marks the run as finished successfully.
func (r *Run) Complete() {
	r.FinishedAt = time.Now().UTC()
	r.State = RunStateCompleted
}

// Fail marks the run as failed with the given error.
func (r *Run) Fail(err error) {
	r.FinishedAt = time.Now().UTC()
	r.State = RunStateFailed
	if err != nil {
		r.Err = err.Error()
	}
}

// PagesVisited returns the number of successful fetches.
func (r *Run) PagesVisited() int {
	n := 0
	for _, v := range r.Visits {
		if v.OK() {
			n++
		}
	}
	return n
}

// PagesFailed returns the number of failed fetches.
func (r *Run) PagesFailed() int {
	return len(r.Visits) - r.PagesVisited()
}

// Duration returns how long the run took, or the elapsed time so far for
// a run that is still in progress.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunSummary is the journal's condensed view of a run, served by the
// status endpoint and listed in historical reports.
type RunSummary struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	State        RunState  `json:"state"`
	RootCount    int       `json:"root_count"`
	URLCount     int       `json:"url_count"`
	PagesVisited int       `json:"pages_visited"`
	PagesFailed  int       `json:"pages_failed"`
	Err          string    `json:"error,omitempty"`
}
