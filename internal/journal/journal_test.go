package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// openTestJournal opens a journal backed by a temp database.
func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	return j
}

// finishedRun builds a completed run with two visits.
func finishedRun() *model.Run {
	run := model.NewRun([]string{"https://docs.example.com"})
	run.Discovered = []string{
		"https://docs.example.com",
		"https://docs.example.com/a",
	}
	run.Visits = []*model.PageVisit{
		{
			URL:         "https://docs.example.com",
			Root:        "https://docs.example.com",
			Depth:       0,
			StatusCode:  200,
			ContentType: "text/html",
			FetchedAt:   time.Now().UTC(),
			Duration:    120 * time.Millisecond,
			LinksFound:  1,
		},
		{
			URL:        "https://docs.example.com/a",
			Root:       "https://docs.example.com",
			Depth:      1,
			StatusCode: 404,
			FetchedAt:  time.Now().UTC(),
			Duration:   40 * time.Millisecond,
			Err:        "unexpected status 404",
		},
	}
	run.Complete()
	return run
}

// TestOpen tests database creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database and parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "journal.db")
		j, err := Open(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer j.Close()

		if j.Path() != path {
			t.Errorf("expected path %q, got %q", path, j.Path())
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "journal.db")

		first, err := Open(path)
		if err != nil {
			t.Fatalf("first open: %v", err)
		}
		if _, err := first.RecordRun(context.Background(), finishedRun()); err != nil {
			t.Fatalf("record: %v", err)
		}
		_ = first.Close()

		second, err := Open(path)
		if err != nil {
			t.Fatalf("second open: %v", err)
		}
		defer second.Close()

		if _, err := second.LatestRun(context.Background()); err != nil {
			t.Errorf("expected recorded run to survive reopen: %v", err)
		}
	})
}

// TestRecordRun tests run persistence and retrieval.
func TestRecordRun(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.RecordRun(ctx, finishedRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero run ID")
	}

	t.Run("latest run summary", func(t *testing.T) {
		summary, err := j.LatestRun(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.ID != id {
			t.Errorf("expected ID %d, got %d", id, summary.ID)
		}
		if summary.State != model.RunStateCompleted {
			t.Errorf("expected completed state, got %q", summary.State)
		}
		if summary.URLCount != 2 {
			t.Errorf("expected 2 URLs, got %d", summary.URLCount)
		}
		if summary.PagesVisited != 1 {
			t.Errorf("expected 1 visited, got %d", summary.PagesVisited)
		}
		if summary.PagesFailed != 1 {
			t.Errorf("expected 1 failed, got %d", summary.PagesFailed)
		}
	})

	t.Run("visits round trip", func(t *testing.T) {
		visits, err := j.VisitsForRun(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(visits) != 2 {
			t.Fatalf("expected 2 visits, got %d", len(visits))
		}
		if visits[0].URL != "https://docs.example.com" {
			t.Errorf("unexpected first visit: %q", visits[0].URL)
		}
		if visits[0].Duration != 120*time.Millisecond {
			t.Errorf("duration lost: %s", visits[0].Duration)
		}
		if visits[1].Err == "" {
			t.Error("expected failed visit error to survive")
		}
	})
}

// TestRecordRun_FailedRun verifies failed runs are recorded too.
func TestRecordRun_FailedRun(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	run := model.NewRun([]string{"https://docs.example.com"})
	run.Fail(errors.New("persist discovered set: disk full"))

	id, err := j.RecordRun(ctx, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := j.LatestRun(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ID != id {
		t.Errorf("expected ID %d, got %d", id, summary.ID)
	}
	if summary.State != model.RunStateFailed {
		t.Errorf("expected failed state, got %q", summary.State)
	}
	if summary.Err == "" {
		t.Error("expected error message to be recorded")
	}
}

// TestLatestRun_Empty tests the empty-journal sentinel.
func TestLatestRun_Empty(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)

	if _, err := j.LatestRun(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}

// TestRecentRuns tests history listing.
func TestRecentRuns(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := finishedRun()
		run.StartedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		run.FinishedAt = run.StartedAt.Add(10 * time.Second)
		if _, err := j.RecordRun(ctx, run); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := j.RecentRuns(ctx, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].StartedAt.After(runs[i-1].StartedAt) {
				t.Error("runs not ordered newest first")
			}
		}
	})

	t.Run("limit respected", func(t *testing.T) {
		runs, err := j.RecentRuns(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}
