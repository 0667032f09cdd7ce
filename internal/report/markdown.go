package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// MarkdownWriter outputs reports as GitHub Flavored Markdown, for pasting
// into issues or keeping next to the mirror.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl summary.
func (w *MarkdownWriter) Write(s *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Mirrorcrawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + orDash(s.RunID) + "`"},
			{"Seed", s.Seed},
			{"Target Host", "`" + s.TargetHost + "`"},
			{"Output Dir", "`" + orDash(s.OutputDir) + "`"},
			{"Started", s.StartedAt.Format(timeLayout)},
			{"Elapsed", strconv.FormatInt(s.ElapsedSeconds(), 10) + "s"},
			{"Pages Mirrored", strconv.Itoa(s.Pages)},
			{"URLs Visited", strconv.Itoa(s.Visited)},
			{"Status", statusText(s)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, s)
	w.writeIterations(md, s)
	w.writeFailures(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.CrawlSummary) {
	switch {
	case s.Interrupted:
		md.Cautionf("The crawl was interrupted after %d iteration(s). The mirror is incomplete.", len(s.Iterations))
	case s.HasFailures():
		md.Warningf("%d URL(s) could not be fetched or written. They were not retried.", s.FailureCount())
	default:
		md.Tip("Every reachable page was mirrored.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeIterations(md *markdown.Markdown, s *model.CrawlSummary) {
	md.H2("Iterations")
	md.PlainText("")

	if len(s.Iterations) == 0 {
		md.PlainText("The seed linked to no new pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Iterations))
	for i, it := range s.Iterations {
		rows[i] = []string{
			strconv.Itoa(it.Index),
			strconv.Itoa(it.Dispatched),
			strconv.Itoa(it.Succeeded),
			strconv.Itoa(it.Failed),
			strconv.Itoa(it.NewURLs),
			strconv.Itoa(it.VisitedAfter),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Dispatched", "Succeeded", "Failed", "New URLs", "Visited"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.HasFailures() {
		w.writePieChart(md, s)
	}
}

// writePieChart shows the share of failed pages among all dispatched ones.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)
	if s.Pages > 0 {
		chart.LabelAndIntValue("Mirrored", uint64(s.Pages)) //nolint:gosec // counts are non-negative
	}
	chart.LabelAndIntValue("Failed", uint64(s.FailureCount())) //nolint:gosec // counts are non-negative

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, s *model.CrawlSummary) {
	if !s.HasFailures() {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(s.Failures))
	for i, f := range s.Failures {
		rows[i] = []string{
			strconv.Itoa(f.Iteration),
			f.Kind,
			f.URL,
			truncateString(f.Message, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Iteration", "Kind", "URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [mirrorcrawl](https://github.com/nao1215/mirrorcrawl)*")
}

// WriteRuns outputs a table of runs.
func (w *MarkdownWriter) WriteRuns(runs []model.CrawlRun) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No crawl runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i := range runs {
		r := &runs[i]
		rows[i] = []string{
			"`" + r.ID + "`",
			r.StartedAt.Local().Format(timeLayout),
			r.Seed,
			strconv.Itoa(r.Pages),
			strconv.Itoa(r.Failures),
			runStatus(r),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run ID", "Started", "Seed", "Pages", "Failures", "Status"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// WriteFetches outputs a table of the fetches of one run.
func (w *MarkdownWriter) WriteFetches(run *model.CrawlRun, fetches []model.FetchRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run " + run.ID)
	md.PlainText("")
	md.BulletList(
		"Seed: "+run.Seed,
		"Started: "+run.StartedAt.Local().Format(timeLayout),
		"Status: "+runStatus(run),
	)
	md.PlainText("")

	rows := make([][]string, len(fetches))
	for i := range fetches {
		f := &fetches[i]
		errMsg := f.Error
		if errMsg == "" {
			errMsg = "-"
		}
		rows[i] = []string{
			strconv.Itoa(f.Iteration),
			fetchStatus(f),
			strconv.Itoa(f.Links),
			shortHash(f.ContentHash),
			f.URL,
			truncateString(errMsg, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Iteration", "Status", "Links", "Hash", "URL", "Error"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
