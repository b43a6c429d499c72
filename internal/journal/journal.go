package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// ErrNoRuns is returned when the journal holds no recorded runs yet.
var ErrNoRuns = errors.New("journal: no runs recorded")

// Journal stores run history in a SQLite database file.
//
// Design decision: We use one database file for all runs rather than a
// file per run. Run history is queried across runs (latest run, recent
// runs) and a single file keeps those queries and backups trivial.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens or creates the journal database at the given path.
// The parent directory is created if needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	// SQLite supports one writer; a second connection would only
	// contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, path: path}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal tables: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal database file path.
func (j *Journal) Path() string {
	return j.path
}

// createTables creates the schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		state TEXT NOT NULL,
		root_count INTEGER NOT NULL,
		url_count INTEGER NOT NULL,
		pages_visited INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per page fetch attempted during a run
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		root TEXT NOT NULL,
		depth INTEGER NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		fetched_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		links_found INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_visits_run ON visits(run_id);
	CREATE INDEX IF NOT EXISTS idx_visits_url ON visits(url);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// RecordRun inserts a finished run and all its page visits in one
// transaction, returning the run's journal ID.
func (j *Journal) RecordRun(ctx context.Context, run *model.Run) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, state, root_count, url_count, pages_visited, pages_failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		string(run.State),
		len(run.Roots),
		len(run.Discovered),
		run.PagesVisited(),
		run.PagesFailed(),
		run.Err,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO visits (run_id, url, root, depth, status_code, content_type, fetched_at, duration_ms, links_found, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare visit insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range run.Visits {
		if _, err := stmt.ExecContext(ctx,
			runID,
			v.URL,
			v.Root,
			v.Depth,
			v.StatusCode,
			v.ContentType,
			v.FetchedAt.UTC(),
			v.Duration.Milliseconds(),
			v.LinksFound,
			v.Err,
		); err != nil {
			return 0, fmt.Errorf("insert visit %s: %w", v.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	return runID, nil
}

// LatestRun returns the most recently started run's summary, or
// ErrNoRuns when the journal is empty.
func (j *Journal) LatestRun(ctx context.Context) (*model.RunSummary, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, state, root_count, url_count, pages_visited, pages_failed, error
		FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)

	summary, err := scanRunSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	return summary, err
}

// RecentRuns returns up to limit run summaries, newest first.
func (j *Journal) RecentRuns(ctx context.Context, limit int) ([]*model.RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, state, root_count, url_count, pages_visited, pages_failed, error
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]*model.RunSummary, 0, limit)
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// VisitsForRun returns all page visits recorded for a run, in fetch
// order.
func (j *Journal) VisitsForRun(ctx context.Context, runID int64) ([]*model.PageVisit, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT url, root, depth, status_code, content_type, fetched_at, duration_ms, links_found, error
		FROM visits WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	visits := make([]*model.PageVisit, 0, 64)
	for rows.Next() {
		var v model.PageVisit
		var durationMS int64
		if err := rows.Scan(
			&v.URL,
			&v.Root,
			&v.Depth,
			&v.StatusCode,
			&v.ContentType,
			&v.FetchedAt,
			&durationMS,
			&v.LinksFound,
			&v.Err,
		); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Duration = time.Duration(durationMS) * time.Millisecond
		visits = append(visits, &v)
	}

	return visits, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanRunSummary.
type scanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(s scanner) (*model.RunSummary, error) {
	var summary model.RunSummary
	var state string
	if err := s.Scan(
		&summary.ID,
		&summary.StartedAt,
		&summary.FinishedAt,
		&state,
		&summary.RootCount,
		&summary.URLCount,
		&summary.PagesVisited,
		&summary.PagesFailed,
		&summary.Err,
	); err != nil {
		return nil, err
	}
	summary.State = model.RunState(state)
	return &summary, nil
}
