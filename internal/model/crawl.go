package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CrawlSummary describes one crawl run.
type CrawlSummary struct {
	// RunID identifies the run in the crawl journal.
	RunID string `json:"run_id"`

	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// TargetHost is the only host whose links were followed.
	TargetHost string `json:"target_host"`

	// OutputDir is the root of the mirrored tree.
	OutputDir string `json:"output_dir,omitempty"`

	// StartedAt is when the seed fetch began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last iteration joined.
	FinishedAt time.Time `json:"finished_at"`

	// Elapsed is the wall-clock duration of the crawl.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Visited is the size of the visited set at the end of the crawl.
	Visited int `json:"visited"`

	// Pages counts pages that were fetched and mirrored, seed included.
	Pages int `json:"pages"`

	// Iterations holds one entry per fan-out round. The seed bootstrap is
	// not an iteration.
	Iterations []IterationStats `json:"iterations"`

	// Failures lists every per-URL error in the order it was reported.
	Failures []Failure `json:"failures"`

	// Interrupted is true when the crawl stopped on context cancellation
	// before the frontier emptied.
	Interrupted bool `json:"interrupted,omitempty"`
}

// IterationStats holds the counters of one iteration.
type IterationStats struct {
	// Index is 1 for the first fan-out after the seed.
	Index int `json:"index"`

	// Dispatched is the frontier size at the start of the iteration.
	Dispatched int `json:"dispatched"`

	// Succeeded counts tasks that fetched and mirrored their page.
	Succeeded int `json:"succeeded"`

	// Failed counts tasks that ended with a fetch or write error.
	Failed int `json:"failed"`

	// NewURLs is the size of the next frontier.
	NewURLs int `json:"new_urls"`

	// VisitedAfter is the visited set size after dispatch marking.
	VisitedAfter int `json:"visited_after"`
}

// Failure is a per-URL error flattened for reports.
type Failure struct {
	Iteration int    `json:"iteration"`
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// ElapsedSeconds returns Elapsed truncated to whole seconds.
func (s *CrawlSummary) ElapsedSeconds() int64 {
	return int64(s.Elapsed / time.Second)
}

// HasFailures reports whether any URL failed.
func (s *CrawlSummary) HasFailures() bool {
	return len(s.Failures) > 0
}

// FailureCount returns the number of failed URLs.
func (s *CrawlSummary) FailureCount() int {
	return len(s.Failures)
}

// ContentHash returns the hex SHA-256 of content, or "" for empty content.
func ContentHash(content string) string {
	if content == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
