package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// TestNewHTTPClient tests the shared client settings.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("pool sized to workers", func(t *testing.T) {
		t.Parallel()

		client := NewHTTPClient(5*time.Second, 8)
		transport, ok := client.Transport.(*http.Transport)
		if !ok {
			t.Fatalf("unexpected transport %T", client.Transport)
		}
		if transport.MaxIdleConnsPerHost != 8 {
			t.Errorf("expected 8 idle conns per host, got %d", transport.MaxIdleConnsPerHost)
		}
		if client.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", client.Timeout)
		}
	})

	t.Run("non-positive workers use the default", func(t *testing.T) {
		t.Parallel()

		transport, ok := NewHTTPClient(0, 0).Transport.(*http.Transport)
		if !ok {
			t.Fatal("expected *http.Transport")
		}
		if transport.MaxIdleConnsPerHost != DefaultWorkers {
			t.Errorf("expected %d, got %d", DefaultWorkers, transport.MaxIdleConnsPerHost)
		}
	})

	t.Run("redirect loop returns the last response", func(t *testing.T) {
		t.Parallel()

		// /r/N redirects to /r/N+1 forever.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := strconv.Atoi(r.URL.Path[len("/r/"):])
			if err != nil {
				http.NotFound(w, r)
				return
			}
			http.Redirect(w, r, "/r/"+strconv.Itoa(n+1), http.StatusFound)
		}))
		defer srv.Close()

		fetcher := NewHTTPFetcher(NewHTTPClient(0, 1))
		page, err := fetcher.Fetch(context.Background(), srv.URL+"/r/0")
		if err != nil {
			t.Fatalf("expected redirect response, got error %v", err)
		}
		if page.StatusCode != http.StatusFound {
			t.Errorf("expected 302, got %d", page.StatusCode)
		}
	})

	t.Run("follows redirects on the same host", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/old" {
				http.Redirect(w, r, "/new", http.StatusMovedPermanently)
				return
			}
			_, _ = w.Write([]byte("new page")) //nolint:errcheck
		}))
		defer srv.Close()

		page, err := NewHTTPFetcher(NewHTTPClient(0, 1)).Fetch(context.Background(), srv.URL+"/old")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.StatusCode != http.StatusOK || page.Body != "new page" {
			t.Errorf("unexpected page %d %q", page.StatusCode, page.Body)
		}
	})
}
