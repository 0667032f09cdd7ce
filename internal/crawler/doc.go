// Package crawler mirrors a single web host, starting from a seed URL.
//
// # Architecture
//
// The crawl runs in iterations. Each iteration takes the current frontier
// (discovered URLs that were never dispatched), marks all of them visited,
// fans them out to a bounded pool of workers and joins on every task before
// computing the next frontier. The crawl ends when the frontier is empty.
//
// The visited set is an immutable snapshot inside an iteration. Only the
// goroutine running Crawler.Run replaces it, and only between joins, so the
// workers never need a lock to read it.
//
// # Components
//
//   - Normalizer: turns a raw href into an absolute URL on the target host
//   - Extractor: collects candidate page links from an HTML document
//   - HTTPFetcher: GETs a URL and returns its body as text
//   - NewHTTPClient: the shared client, pooled and redirect-capped
//   - URLSet, ComputeNext, MergeVisited: frontier bookkeeping
//   - Crawler: the iteration loop
//   - Locator: lets a Persister report which URLs share a mirror file
//   - Console: the human-readable progress stream
//
// # Errors
//
// A failure while processing one URL is local to that URL. It is returned as
// a *FetchError or *WriteError inside the task's Outcome, printed, and never
// retried. Only a failure on the seed aborts the crawl.
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(crawler.NewHTTPClient(0, 16))
//	c, err := crawler.New("https://example.com", fetcher, mirror.NewSink("static"),
//	    crawler.WithWorkers(16))
//	summary, err := c.Run(ctx)
package crawler
