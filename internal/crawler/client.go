package crawler

import (
	"net/http"
	"time"
)

// maxRedirects is the number of redirects followed before the last
// response is returned as the page.
const maxRedirects = 10

// NewHTTPClient returns the client shared by all fetch tasks.
//
// Every request goes to the same host, so the idle pool keeps one
// connection per worker and no worker has to re-dial between iterations.
// After maxRedirects hops the redirect response itself is returned and
// mirrored like any other non-2xx page. timeout is the per-request limit;
// zero disables it.
func NewHTTPClient(timeout time.Duration, workers int) *http.Client {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.MaxIdleConns = workers
	transport.MaxIdleConnsPerHost = workers
	transport.IdleConnTimeout = 30 * time.Second

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}
