package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/brinisSoftArchitect/xml-generator/internal/journal"
	"github.com/brinisSoftArchitect/xml-generator/internal/model"
	"github.com/brinisSoftArchitect/xml-generator/internal/sitemap"
)

// Crawler runs the traversal for one run. Implemented by crawler.Spider.
type Crawler interface {
	Run(ctx context.Context, run *model.Run) error
}

// CrawlStep traverses every root and fills the run's discovered set.
type CrawlStep struct {
	// Spider is the crawl engine, already configured with its
	// extractor and incremental persistence hook.
	Spider Crawler
}

// Name returns the step name.
func (s *CrawlStep) Name() string { return "crawl" }

// Do executes the traversal. Per-page failures are handled inside the
// engine; an error here means the whole traversal aborted (persistence
// failure or cancellation).
func (s *CrawlStep) Do(ctx context.Context, run *model.Run) error {
	return s.Spider.Run(ctx, run)
}

// SitemapStep writes the run's final sitemap document. Its success is
// what "run completed" means: incremental writes during the crawl are
// best-effort progress, this write is the run's contract.
type SitemapStep struct {
	Store *sitemap.Store
}

// Name returns the step name.
func (s *SitemapStep) Name() string { return "sitemap" }

// Do persists the discovered set. A disk write error here is fatal for
// this run's completion; the next scheduled run is unaffected.
func (s *SitemapStep) Do(_ context.Context, run *model.Run) error {
	if err := s.Store.Write(run.Discovered, time.Now()); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}

	run.SitemapPath = s.Store.Path()
	if run.State == model.RunStateRunning {
		run.Complete()
	}
	return nil
}

// JournalStep records the finished run in the crawl journal. It runs
// after the sitemap step so the recorded state reflects the final
// outcome, including failures of earlier steps.
type JournalStep struct {
	Journal *journal.Journal
}

// Name returns the step name.
func (s *JournalStep) Name() string { return "journal" }

// Do inserts the run and its visits. With no journal configured this
// step is a no-op.
func (s *JournalStep) Do(ctx context.Context, run *model.Run) error {
	if s.Journal == nil {
		return nil
	}

	// A run that failed before reaching the sitemap step has no settled
	// end time yet; stamp it so the journal row is complete.
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	id, err := s.Journal.RecordRun(ctx, run)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	run.ID = id
	return nil
}

// ReportWriter renders a run report. Implemented by the report package.
type ReportWriter interface {
	Write(run *model.Run) (int, error)
}

// ReportStep writes a human-readable report of the run, when a writer
// is configured. Used by the generate command; the serve scheduler
// leaves it out.
type ReportStep struct {
	Writer ReportWriter
}

// Name returns the step name.
func (s *ReportStep) Name() string { return "report" }

// Do writes the report.
func (s *ReportStep) Do(_ context.Context, run *model.Run) error {
	if s.Writer == nil {
		return nil
	}

	if _, err := s.Writer.Write(run); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
