package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store persists sitemap documents to a fixed path.
//
// Design decision: Every write goes to a temporary file in the target
// directory followed by a rename. Rename is atomic on POSIX
// filesystems, so a crash mid-write leaves the previous complete
// document in place rather than a truncated one. The mutex serializes
// writers; with a parallelized crawl, multiple branches persist
// concurrently and their writes must not interleave.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store writing to the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the sitemap file path.
func (st *Store) Path() string {
	return st.path
}

// Write renders the URL set and atomically replaces the sitemap file.
// Either the whole document lands or the previous one survives; there
// is no partial state.
func (st *Store) Write(urls []string, now time.Time) error {
	doc, err := Render(urls, now)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create sitemap directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sitemap-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp sitemap: %w", err)
	}

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp sitemap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp sitemap: %w", err)
	}

	// The sitemap is public content served over HTTP; world-readable.
	if err := os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gosec
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp sitemap: %w", err)
	}

	if err := os.Rename(tmp.Name(), st.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace sitemap: %w", err)
	}

	return nil
}
