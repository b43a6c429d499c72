package report

import (
	"encoding/json"
	"io"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// JSONWriter outputs run reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because it is sufficient for our needs and
// behaves consistently across Go versions.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(run, "", "  ")
	} else {
		data, err = json.Marshal(run)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	n, err := w.output.Write(data)
	return n, err
}
