package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// MarkdownWriter outputs run reports in GitHub Flavored Markdown.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeDiscovered(md, run)
	w.writeFailures(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Sitemap Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Roots", "`" + strings.Join(run.Roots, "`, `") + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(1e6).String()},
			{"URLs in sitemap", strconv.Itoa(len(run.Discovered))},
			{"Pages fetched", strconv.Itoa(run.PagesVisited())},
			{"Pages failed", strconv.Itoa(run.PagesFailed())},
			{"Status", w.statusText(run)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on the run state.
func (w *MarkdownWriter) statusText(run *model.Run) string {
	if run.Err != "" {
		return "❌ Error - " + run.Err
	}
	if run.State == model.RunStateCompleted {
		return "✅ Complete"
	}
	return string(run.State)
}

// writeDiscovered lists every URL that made it into the sitemap.
func (w *MarkdownWriter) writeDiscovered(md *markdown.Markdown, run *model.Run) {
	md.H2("Discovered URLs")
	md.PlainText("")

	if len(run.Discovered) == 0 {
		md.PlainText("No URLs discovered.")
		md.PlainText("")
		return
	}

	md.BulletList(run.Discovered...)
	md.PlainText("")
}

// writeFailures writes the table of failed fetches, if any.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, run *model.Run) {
	failed := make([][]string, 0)
	for _, v := range run.Visits {
		if v.OK() {
			continue
		}
		failed = append(failed, []string{
			"`" + v.URL + "`",
			strconv.Itoa(v.Depth),
			strconv.Itoa(v.StatusCode),
			v.Err,
		})
	}
	if len(failed) == 0 {
		return
	}

	md.H2("Failed Fetches")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Status", "Error"},
		Rows:   failed,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [xml-generator](https://github.com/brinisSoftArchitect/xml-generator)*")
}
