package crawler

import (
	"errors"
	"fmt"
)

// ErrInvalidSeed is returned by New when the seed URL is not an absolute
// http or https URL.
var ErrInvalidSeed = errors.New("invalid seed URL: must be an absolute http(s) URL")

// ErrBodyTooLarge is the cause of a FetchError for a response body larger
// than the fetcher's maximum.
var ErrBodyTooLarge = errors.New("response body too large")

// FetchError reports a transport failure while fetching URL.
type FetchError struct {
	// URL is the page that could not be fetched.
	URL string

	// Err is the underlying transport or body read error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure while mirroring the content of URL to disk.
type WriteError struct {
	// URL is the page whose content could not be written.
	URL string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// errorKind names the variant of a crawl error for reports and the journal.
func errorKind(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return "fetch"
	}
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return "write"
	}
	return "unknown"
}
