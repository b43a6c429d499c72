package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// sampleRun builds a completed run with one failed fetch.
func sampleRun() *model.Run {
	run := model.NewRun([]string{"https://docs.example.com"})
	run.StartedAt = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	run.Discovered = []string{
		"https://docs.example.com",
		"https://docs.example.com/a",
		"https://docs.example.com/gone",
	}
	run.Visits = []*model.PageVisit{
		{URL: "https://docs.example.com", Depth: 0, StatusCode: 200, LinksFound: 2},
		{URL: "https://docs.example.com/a", Depth: 1, StatusCode: 200},
		{URL: "https://docs.example.com/gone", Depth: 1, StatusCode: 404, Err: "unexpected status 404"},
	}
	run.SitemapPath = "/data/sitemap.xml"
	run.FinishedAt = run.StartedAt.Add(3 * time.Second)
	run.State = model.RunStateCompleted
	return run
}

// TestSimpleWriter tests the plain-text report.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary fields present", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"Sitemap Crawl Report",
			"https://docs.example.com",
			"URLs in sitemap: 3",
			"Pages fetched:  2",
			"Pages failed:   1",
			"/data/sitemap.xml",
			"COMPLETED",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("failed fetches listed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "/gone") {
			t.Errorf("failed URL missing:\n%s", out)
		}
		if !strings.Contains(out, "unexpected status 404") {
			t.Errorf("failure reason missing:\n%s", out)
		}
	})

	t.Run("verbose lists every visit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "depth=1 status=200") {
			t.Errorf("visit detail missing:\n%s", buf.String())
		}
	})

	t.Run("failed run shows error status", func(t *testing.T) {
		t.Parallel()

		run := sampleRun()
		run.State = model.RunStateFailed
		run.Err = "persist discovered set: disk full"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "ERROR - persist discovered set: disk full") {
			t.Errorf("error status missing:\n%s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleRun()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Sitemap Crawl Report",
		"## Discovered URLs",
		"## Failed Fetches",
		"https://docs.example.com/gone",
		"✅ Complete",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

// TestJSONWriter tests the JSON report.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("output is valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Run
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Discovered) != 3 {
			t.Errorf("expected 3 URLs, got %d", len(decoded.Discovered))
		}
		if decoded.State != model.RunStateCompleted {
			t.Errorf("expected completed state, got %q", decoded.State)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

// TestMultiWriter tests fan-out writing.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		if _, err := mw.Write(sampleRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected output in every writer")
		}
	})

	t.Run("propagates writer failure", func(t *testing.T) {
		t.Parallel()

		mw := NewMultiWriter(&failingWriter{})
		if _, err := mw.Write(sampleRun()); err == nil {
			t.Error("expected error")
		}
	})
}

// failingWriter always fails.
type failingWriter struct{}

func (w *failingWriter) Write(_ *model.Run) (int, error) {
	return 0, errors.New("broken pipe")
}
