package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// JSONWriter outputs reports as JSON for tool integration.
// Durations are encoded in nanoseconds, as encoding/json does for
// time.Duration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the crawl summary.
func (w *JSONWriter) Write(s *model.CrawlSummary) (int, error) {
	return w.writeJSON(s)
}

// WriteRuns outputs the runs as a JSON array. An empty list is "[]".
func (w *JSONWriter) WriteRuns(runs []model.CrawlRun) (int, error) {
	if runs == nil {
		runs = []model.CrawlRun{}
	}
	return w.writeJSON(runs)
}

// runFetches is the JSON shape of WriteFetches.
type runFetches struct {
	Run     *model.CrawlRun     `json:"run"`
	Fetches []model.FetchRecord `json:"fetches"`
}

// WriteFetches outputs the run with its fetches.
func (w *JSONWriter) WriteFetches(run *model.CrawlRun, fetches []model.FetchRecord) (int, error) {
	if fetches == nil {
		fetches = []model.FetchRecord{}
	}
	return w.writeJSON(runFetches{Run: run, Fetches: fetches})
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
