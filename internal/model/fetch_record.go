package model

import "time"

// FetchRecord is one journal entry: what happened to a single URL in a run.
type FetchRecord struct {
	// RunID ties the record to its CrawlSummary.
	RunID string `json:"run_id"`

	// Iteration is 0 for the seed.
	Iteration int `json:"iteration"`

	// URL is the dispatched URL.
	URL string `json:"url"`

	// StatusCode is 0 when the fetch failed at the transport level.
	StatusCode int `json:"status_code"`

	// ContentHash is the SHA-256 of the body, empty when nothing was fetched.
	ContentHash string `json:"content_hash,omitempty"`

	// Links is the number of links extracted from the page.
	Links int `json:"links"`

	// ErrorKind is "fetch", "write" or empty on success.
	ErrorKind string `json:"error_kind,omitempty"`

	// Error is the error message, empty on success.
	Error string `json:"error,omitempty"`

	// Timestamp is when the record was stored.
	Timestamp time.Time `json:"timestamp"`
}

// Succeeded reports whether the fetch and write both succeeded.
func (r *FetchRecord) Succeeded() bool {
	return r.ErrorKind == ""
}
