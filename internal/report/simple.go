package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// SimpleWriter outputs a human-readable plain-text summary.
// This is the default format for terminal use.
type SimpleWriter struct {
	baseWriter

	// verbose includes every page visit, not just the failures.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes every page visit in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in plain text.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeFailures(&sb, run)
	if w.verbose {
		w.writeVisits(&sb, run)
	}

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString("==================================================\n")
	sb.WriteString(" Sitemap Crawl Report\n")
	sb.WriteString("==================================================\n")
	sb.WriteString(fmt.Sprintf("Roots:          %s\n", strings.Join(run.Roots, ", ")))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", run.Duration().Round(1e6)))
	sb.WriteString(fmt.Sprintf("URLs in sitemap: %d\n", len(run.Discovered)))
	sb.WriteString(fmt.Sprintf("Pages fetched:  %d\n", run.PagesVisited()))
	sb.WriteString(fmt.Sprintf("Pages failed:   %d\n", run.PagesFailed()))
	if run.SitemapPath != "" {
		sb.WriteString(fmt.Sprintf("Sitemap:        %s\n", run.SitemapPath))
	}
	if run.Err != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", run.Err))
	} else {
		sb.WriteString(fmt.Sprintf("Status:         %s\n", strings.ToUpper(string(run.State))))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, run *model.Run) {
	failed := make([]*model.PageVisit, 0)
	for _, v := range run.Visits {
		if !v.OK() {
			failed = append(failed, v)
		}
	}
	if len(failed) == 0 {
		return
	}

	sb.WriteString("Failed fetches:\n")
	for _, v := range failed {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", v.URL))
		sb.WriteString(fmt.Sprintf("      %s\n", v.Err))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeVisits(sb *strings.Builder, run *model.Run) {
	if len(run.Visits) == 0 {
		return
	}

	sb.WriteString("Visits:\n")
	for _, v := range run.Visits {
		marker := "+"
		if !v.OK() {
			marker = "!"
		}
		sb.WriteString(fmt.Sprintf("  [%s] depth=%d status=%d links=%d %s\n",
			marker, v.Depth, v.StatusCode, v.LinksFound, v.URL))
	}
	sb.WriteString("\n")
}
