package crawler

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Console writes the crawl's progress lines.
// Workers print concurrently, so every write holds the mutex.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w. A nil w discards output.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format, args...) //nolint:errcheck // progress output is best effort
}

// FetchStatus prints the HTTP status received for url.
func (c *Console) FetchStatus(url, status string) {
	c.printf("Status for %s: %s\n", url, status)
}

// Visited prints how many links a successfully processed page yielded.
func (c *Console) Visited(url string, links int) {
	c.printf("Visited: %s found %d links\n", url, links)
}

// NewURLs prints the size of the next frontier.
func (c *Console) NewURLs(n int) {
	c.printf("New urls: %d\n", n)
}

// Failures prints the errors collected during one iteration as one block.
func (c *Console) Failures(errs []error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(errs) == 0 {
		_, _ = fmt.Fprintln(c.w, "Errors: none") //nolint:errcheck
		return
	}
	_, _ = fmt.Fprintf(c.w, "Errors: %d\n", len(errs)) //nolint:errcheck
	for _, err := range errs {
		_, _ = fmt.Fprintf(c.w, "  - %v\n", err) //nolint:errcheck
	}
}

// Elapsed prints the total crawl time in whole seconds.
func (c *Console) Elapsed(d time.Duration) {
	c.printf("Elapsed time: %d\n", int64(d/time.Second))
}
