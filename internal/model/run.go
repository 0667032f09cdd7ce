package model

import "time"

// CrawlRun is the journal's view of one crawl: its identity and final
// counters, without the per-iteration detail.
type CrawlRun struct {
	ID          string    `json:"id"`
	Seed        string    `json:"seed"`
	TargetHost  string    `json:"target_host"`
	OutputDir   string    `json:"output_dir"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
	Visited     int       `json:"visited"`
	Pages       int       `json:"pages"`
	Failures    int       `json:"failures"`
	Interrupted bool      `json:"interrupted"`
}

// Finished reports whether the run recorded its end.
// Runs killed without a chance to clean up stay unfinished.
func (r *CrawlRun) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// NewCrawlRun returns the run row describing s.
func NewCrawlRun(s *CrawlSummary) *CrawlRun {
	return &CrawlRun{
		ID:          s.RunID,
		Seed:        s.Seed,
		TargetHost:  s.TargetHost,
		OutputDir:   s.OutputDir,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		Visited:     s.Visited,
		Pages:       s.Pages,
		Failures:    s.FailureCount(),
		Interrupted: s.Interrupted,
	}
}
