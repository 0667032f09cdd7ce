package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/mirrorcrawl/internal/model"
)

// DefaultWorkers is the default number of pages processed at once.
const DefaultWorkers = 16

// Persister mirrors page content to storage.
// Implementations must be safe for concurrent use on distinct URLs.
type Persister interface {
	// PersistRoot stores the seed page at the root of the mirror.
	PersistRoot(content string) error

	// Persist stores content under a location derived from pageURL.
	Persist(pageURL, content string) error
}

// Locator reports the file a page is mirrored to. Distinct URLs may share a
// file, e.g. URLs differing only in query or fragment.
// A Persister that also implements Locator lets the crawler keep tasks
// writing the same file from running at once.
type Locator interface {
	File(pageURL string) (string, error)
}

// Recorder stores one journal entry per fetched URL.
type Recorder interface {
	RecordFetch(ctx context.Context, rec *model.FetchRecord) error
}

// Outcome is the result of processing one URL.
// Err is nil on success and a *FetchError or *WriteError otherwise.
type Outcome struct {
	URL        string
	StatusCode int
	Hash       string
	Links      URLSet
	Err        error
}

// Crawler mirrors every page reachable from a seed URL on one host.
type Crawler struct {
	seed       string
	fetcher    Fetcher
	sink       Persister
	normalizer *Normalizer
	extractor  *Extractor

	// workers bounds the number of tasks in flight in one iteration.
	workers int

	console  *Console
	logger   *slog.Logger
	recorder Recorder
	runID    string
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets the worker pool size. Values <= 0 keep the default.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithConsole sets where progress lines are printed.
func WithConsole(console *Console) Option {
	return func(c *Crawler) {
		c.console = console
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithRecorder journals every fetch outcome.
func WithRecorder(r Recorder) Option {
	return func(c *Crawler) {
		c.recorder = r
	}
}

// WithRunID sets the identifier written to the summary and the journal.
func WithRunID(id string) Option {
	return func(c *Crawler) {
		c.runID = id
	}
}

// WithTargetHost restricts link following to host instead of the seed's host.
func WithTargetHost(host string) Option {
	return func(c *Crawler) {
		if host != "" {
			c.normalizer.host = host
		}
	}
}

// New returns a Crawler for seed.
// The seed's scheme and host form the origin used for root-relative links.
func New(seed string, fetcher Fetcher, sink Persister, opts ...Option) (*Crawler, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidSeed
	}
	// "http://host" and "http://host/" are the same page; links use the latter.
	if u.Path == "" {
		u.Path = "/"
	}

	normalizer := NewNormalizer(u)
	c := &Crawler{
		seed:       u.String(),
		fetcher:    fetcher,
		sink:       sink,
		normalizer: normalizer,
		extractor:  NewExtractor(normalizer),
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.console == nil {
		c.console = NewConsole(nil)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Seed returns the canonical seed URL.
func (c *Crawler) Seed() string {
	return c.seed
}

// TargetHost returns the host whose links are followed.
func (c *Crawler) TargetHost() string {
	return c.normalizer.Host()
}

// Run crawls until the frontier is empty.
//
// A failure to fetch or store the seed is returned as an error. Failures on
// any other URL are printed, journaled and collected in the summary, and
// the crawl continues. When ctx is cancelled, Run stops after the current
// iteration joins and returns ctx.Err() together with the partial summary.
func (c *Crawler) Run(ctx context.Context) (*model.CrawlSummary, error) {
	start := time.Now()
	summary := &model.CrawlSummary{
		RunID:      c.runID,
		Seed:       c.seed,
		TargetHost: c.normalizer.Host(),
		StartedAt:  start,
		Iterations: make([]model.IterationStats, 0),
		Failures:   make([]model.Failure, 0),
	}

	c.logger.Info("starting crawl",
		"seed", c.seed,
		"host", c.normalizer.Host(),
		"workers", c.workers,
	)

	frontier, err := c.bootstrap(ctx)
	if err != nil {
		summary.Failures = append(summary.Failures, model.Failure{
			URL:     c.seed,
			Kind:    errorKind(err),
			Message: err.Error(),
		})
		c.finish(summary, nil, start)
		return summary, fmt.Errorf("seed: %w", err)
	}
	summary.Pages = 1
	visited := NewURLSet(c.seed)

	for iteration := 1; frontier.Len() > 0; iteration++ {
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			c.finish(summary, visited, start)
			return summary, err
		}

		batch := frontier.Sorted()
		visited = MergeVisited(visited, frontier)

		outcomes := c.dispatch(ctx, batch)

		stats := model.IterationStats{
			Index:        iteration,
			Dispatched:   len(batch),
			VisitedAfter: visited.Len(),
		}
		discovered := make(URLSet)
		errs := make([]error, 0)
		for i := range outcomes {
			o := &outcomes[i]
			c.record(ctx, iteration, o)
			if o.Err != nil {
				errs = append(errs, o.Err)
				summary.Failures = append(summary.Failures, model.Failure{
					Iteration: iteration,
					URL:       o.URL,
					Kind:      errorKind(o.Err),
					Message:   o.Err.Error(),
				})
				continue
			}
			stats.Succeeded++
			union(discovered, o.Links)
		}
		stats.Failed = len(errs)

		frontier = ComputeNext(discovered, visited)
		stats.NewURLs = frontier.Len()
		summary.Pages += stats.Succeeded
		summary.Iterations = append(summary.Iterations, stats)

		c.console.NewURLs(frontier.Len())
		c.console.Failures(errs)
		c.logger.Info("iteration complete",
			"iteration", iteration,
			"dispatched", stats.Dispatched,
			"failed", stats.Failed,
			"new", stats.NewURLs,
		)
	}

	c.finish(summary, visited, start)
	c.console.Elapsed(summary.Elapsed)
	return summary, nil
}

// bootstrap fetches and stores the seed and returns the first frontier.
func (c *Crawler) bootstrap(ctx context.Context) (URLSet, error) {
	page, err := c.fetcher.Fetch(ctx, c.seed)
	if err != nil {
		err = asFetchError(c.seed, err)
		c.record(ctx, 0, &Outcome{URL: c.seed, Err: err})
		return nil, err
	}

	if err := c.sink.PersistRoot(page.Body); err != nil {
		werr := &WriteError{URL: c.seed, Err: err}
		c.record(ctx, 0, &Outcome{URL: c.seed, StatusCode: page.StatusCode, Err: werr})
		return nil, werr
	}

	links := c.extractor.Extract(page.Document())
	c.console.Visited(c.seed, links.Len())
	c.record(ctx, 0, &Outcome{
		URL:        c.seed,
		StatusCode: page.StatusCode,
		Hash:       model.ContentHash(page.Body),
		Links:      links,
	})

	return ComputeNext(links, NewURLSet(c.seed)), nil
}

// dispatch processes batch on the worker pool and waits for every task.
// outcomes[i] belongs to batch[i]; each task writes only its own slot.
// URLs mirrored to the same file run one after another in batch order, so
// the last of them wins and no file is written twice at once.
func (c *Crawler) dispatch(ctx context.Context, batch []string) []Outcome {
	outcomes := make([]Outcome, len(batch))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, group := range c.groupByTarget(batch) {
		g.Go(func() error {
			for _, i := range group {
				outcomes[i] = c.process(ctx, batch[i])
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // tasks report through their Outcome

	return outcomes
}

// groupByTarget returns batch indexes grouped by the file their page is
// mirrored to, in order of first appearance. Without a Locator, or for URLs
// it cannot place, every index is its own group.
func (c *Crawler) groupByTarget(batch []string) [][]int {
	locator, ok := c.sink.(Locator)
	groups := make([][]int, 0, len(batch))
	byFile := make(map[string]int, len(batch))
	for i, pageURL := range batch {
		if ok {
			if file, err := locator.File(pageURL); err == nil {
				if g, seen := byFile[file]; seen {
					groups[g] = append(groups[g], i)
					continue
				}
				byFile[file] = len(groups)
			}
		}
		groups = append(groups, []int{i})
	}
	return groups
}

// process fetches pageURL, mirrors it, and extracts its links.
func (c *Crawler) process(ctx context.Context, pageURL string) Outcome {
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return Outcome{URL: pageURL, Err: asFetchError(pageURL, err)}
	}

	if err := c.sink.Persist(pageURL, page.Body); err != nil {
		return Outcome{
			URL:        pageURL,
			StatusCode: page.StatusCode,
			Err:        &WriteError{URL: pageURL, Err: err},
		}
	}

	links := c.extractor.Extract(page.Document())
	c.console.Visited(pageURL, links.Len())

	return Outcome{
		URL:        pageURL,
		StatusCode: page.StatusCode,
		Hash:       model.ContentHash(page.Body),
		Links:      links,
	}
}

// record journals o. Journal failures are logged and never stop the crawl.
func (c *Crawler) record(ctx context.Context, iteration int, o *Outcome) {
	if c.recorder == nil {
		return
	}

	rec := &model.FetchRecord{
		RunID:       c.runID,
		Iteration:   iteration,
		URL:         o.URL,
		StatusCode:  o.StatusCode,
		ContentHash: o.Hash,
		Links:       o.Links.Len(),
	}
	if o.Err != nil {
		rec.ErrorKind = errorKind(o.Err)
		rec.Error = o.Err.Error()
	}

	// The journal entry is still wanted when the crawl is being cancelled.
	if err := c.recorder.RecordFetch(context.WithoutCancel(ctx), rec); err != nil {
		c.logger.Warn("failed to journal fetch", "url", o.URL, "error", err)
	}
}

func (c *Crawler) finish(summary *model.CrawlSummary, visited URLSet, start time.Time) {
	summary.FinishedAt = time.Now()
	summary.Elapsed = summary.FinishedAt.Sub(start)
	summary.Visited = visited.Len()
}

// asFetchError wraps err as a *FetchError unless it already is one.
func asFetchError(pageURL string, err error) error {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return &FetchError{URL: pageURL, Err: err}
}
