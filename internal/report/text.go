package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// TextWriter outputs plain-text reports for the terminal.
//
// Design decision: plain ASCII without colors, so the output can be piped
// to files unchanged.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl summary.
func (w *TextWriter) Write(s *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "MIRRORCRAWL SUMMARY")

	fmt.Fprintf(&sb, "Run ID:         %s\n", orDash(s.RunID))
	fmt.Fprintf(&sb, "Seed:           %s\n", s.Seed)
	fmt.Fprintf(&sb, "Target Host:    %s\n", s.TargetHost)
	fmt.Fprintf(&sb, "Output Dir:     %s\n", orDash(s.OutputDir))
	fmt.Fprintf(&sb, "Started:        %s\n", s.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Elapsed:        %ds\n", s.ElapsedSeconds())
	fmt.Fprintf(&sb, "Status:         %s\n", statusText(s))
	fmt.Fprintf(&sb, "Pages Mirrored: %d\n", s.Pages)
	fmt.Fprintf(&sb, "URLs Visited:   %d\n", s.Visited)
	sb.WriteString("\n")

	if len(s.Iterations) > 0 {
		writeSection(&sb, "ITERATIONS")
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\tDispatched\tSucceeded\tFailed\tNew URLs\tVisited")
		for _, it := range s.Iterations {
			fmt.Fprintf(tw, "  %d\t%d\t%d\t%d\t%d\t%d\n",
				it.Index, it.Dispatched, it.Succeeded, it.Failed, it.NewURLs, it.VisitedAfter)
		}
		_ = tw.Flush() //nolint:errcheck // strings.Builder never fails
		sb.WriteString("\n")
	}

	if s.HasFailures() {
		writeSection(&sb, fmt.Sprintf("FAILURES (%d)", s.FailureCount()))
		for _, f := range s.Failures {
			fmt.Fprintf(&sb, "  [%s] %s (iteration %d)\n", f.Kind, f.URL, f.Iteration)
			fmt.Fprintf(&sb, "      %s\n", f.Message)
		}
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}

// WriteRuns outputs one line per run.
func (w *TextWriter) WriteRuns(runs []model.CrawlRun) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No crawl runs recorded.\n")
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tSEED\tPAGES\tFAILURES\tSTATUS")
	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			truncateString(r.ID, 8),
			r.StartedAt.Local().Format(timeLayout),
			r.Seed,
			r.Pages,
			r.Failures,
			runStatus(r),
		)
	}
	_ = tw.Flush() //nolint:errcheck // strings.Builder never fails

	return io.WriteString(w.output, sb.String())
}

// WriteFetches outputs the run header followed by one line per fetch.
func (w *TextWriter) WriteFetches(run *model.CrawlRun, fetches []model.FetchRecord) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run %s: %s (%s)\n\n", run.ID, run.Seed, runStatus(run))

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITER\tSTATUS\tLINKS\tHASH\tURL")
	for i := range fetches {
		f := &fetches[i]
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			f.Iteration, fetchStatus(f), f.Links, shortHash(f.ContentHash), f.URL)
	}
	_ = tw.Flush() //nolint:errcheck // strings.Builder never fails

	for i := range fetches {
		if f := &fetches[i]; !f.Succeeded() {
			fmt.Fprintf(&sb, "\n%s: %s", f.URL, f.Error)
		}
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	pad := max((70-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
