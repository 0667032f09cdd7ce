package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// Output formats understood by NewWriter.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders crawl results.
//
// Design decision: one interface for the three formats so the crawl and
// history commands pick a format once and stay format-agnostic.
type Writer interface {
	// Write outputs the summary of one crawl.
	Write(summary *model.CrawlSummary) (int, error)

	// WriteRuns outputs a list of journaled runs, newest first.
	WriteRuns(runs []model.CrawlRun) (int, error)

	// WriteFetches outputs the journaled fetches of one run.
	WriteFetches(run *model.CrawlRun, fetches []model.FetchRecord) (int, error)
}

// NewWriter returns the Writer for format. An empty format means text.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case "", FormatText:
		return NewTextWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every human-readable timestamp.
const timeLayout = "2006-01-02 15:04:05 MST"

// statusText describes how a crawl ended.
func statusText(s *model.CrawlSummary) string {
	switch {
	case s.Interrupted:
		return "Interrupted (partial mirror)"
	case s.HasFailures():
		return fmt.Sprintf("Complete with %d failure(s)", s.FailureCount())
	default:
		return "Complete"
	}
}

// runStatus describes a journaled run in one word or two.
func runStatus(r *model.CrawlRun) string {
	switch {
	case !r.Finished():
		return "unfinished"
	case r.Interrupted:
		return "interrupted"
	case r.Failures > 0:
		return "failures"
	default:
		return "ok"
	}
}

// fetchStatus describes the outcome of a journaled fetch.
func fetchStatus(f *model.FetchRecord) string {
	if !f.Succeeded() {
		return f.ErrorKind + " error"
	}
	return fmt.Sprintf("%d", f.StatusCode)
}

// shortHash keeps hashes readable in tables.
func shortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	return truncateString(hash, 12)
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
