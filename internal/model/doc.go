// Package model defines the data shared by the crawler, the journal and the
// report writers.
//
//   - CrawlSummary: the outcome of one crawl run
//   - IterationStats: per-iteration counters
//   - Failure: one per-URL error, flattened for output
//   - FetchRecord: one journal row describing a fetch
//   - CrawlRun: one journal row describing a run
//
// The types live in their own package so that crawler, database and report
// can share them without import cycles. All of them serialize to JSON.
package model
