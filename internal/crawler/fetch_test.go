package crawler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHTTPFetcher tests fetching over a real HTTP round trip.
func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("returns body and prints status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>Hello</body></html>`)) //nolint:errcheck
		}))
		defer server.Close()

		var out bytes.Buffer
		f := NewHTTPFetcher(server.Client(), WithFetchConsole(NewConsole(&out)))

		page, err := f.Fetch(context.Background(), server.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if !strings.Contains(page.Body, "Hello") {
			t.Errorf("expected body to contain 'Hello', got %q", page.Body)
		}
		want := "Status for " + server.URL + "/: 200 OK\n"
		if out.String() != want {
			t.Errorf("expected status line %q, got %q", want, out.String())
		}
	})

	t.Run("non-2xx is still a success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client())
		page, err := f.Fetch(context.Background(), server.URL+"/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", page.StatusCode)
		}
		if !strings.Contains(page.Body, "gone") {
			t.Errorf("expected error body to be returned, got %q", page.Body)
		}
	})

	t.Run("sends configured headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte("ok")) //nolint:errcheck
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(),
			WithUserAgent("mirrorcrawl-test/1.0"),
			WithCookie("session=abc"),
			WithHeaders(map[string]string{"X-Trace": "42"}),
		)
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := <-headers
		if got.Get("User-Agent") != "mirrorcrawl-test/1.0" {
			t.Errorf("expected user agent, got %q", got.Get("User-Agent"))
		}
		if got.Get("Cookie") != "session=abc" {
			t.Errorf("expected cookie, got %q", got.Get("Cookie"))
		}
		if got.Get("X-Trace") != "42" {
			t.Errorf("expected X-Trace header, got %q", got.Get("X-Trace"))
		}
	})

	t.Run("body over max size is a FetchError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(strings.Repeat("x", 101))) //nolint:errcheck
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(), WithMaxBodySize(100))
		page, err := f.Fetch(context.Background(), server.URL)
		if page != nil {
			t.Errorf("expected no page, got %d bytes", len(page.Body))
		}
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("body of exactly max size is accepted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100))) //nolint:errcheck
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client(), WithMaxBodySize(100))
		page, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Body) != 100 {
			t.Errorf("expected 100 bytes, got %d", len(page.Body))
		}
	})

	t.Run("keeps raw body and decodes declared charset", func(t *testing.T) {
		t.Parallel()

		raw := []byte{'c', 'a', 'f', 0xe9}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write(raw) //nolint:errcheck
		}))
		defer server.Close()

		f := NewHTTPFetcher(server.Client())
		page, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Body != string(raw) {
			t.Errorf("expected raw body %q, got %q", raw, page.Body)
		}
		if page.Text != "café" {
			t.Errorf("expected decoded text 'café', got %q", page.Text)
		}
		if page.Document() != "café" {
			t.Errorf("expected Document to return the decoded text, got %q", page.Document())
		}
	})

	t.Run("Document falls back to the body", func(t *testing.T) {
		t.Parallel()

		page := &Page{Body: "<a href=\"/x\">x</a>"}
		if page.Document() != page.Body {
			t.Errorf("expected body, got %q", page.Document())
		}
	})

	t.Run("transport failure is a FetchError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		target := server.URL + "/down"
		server.Close()

		var out bytes.Buffer
		f := NewHTTPFetcher(http.DefaultClient, WithFetchConsole(NewConsole(&out)))
		_, err := f.Fetch(context.Background(), target)

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fetchErr.URL != target {
			t.Errorf("expected URL %q, got %q", target, fetchErr.URL)
		}
		if out.Len() != 0 {
			t.Errorf("expected no status line on transport failure, got %q", out.String())
		}
	})

	t.Run("invalid URL is a FetchError", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(nil)
		_, err := f.Fetch(context.Background(), "http://[::1")

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T", err)
		}
	})
}

// TestFetcherOptions tests HTTPFetcher configuration.
func TestFetcherOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(nil)
		if f.client != http.DefaultClient {
			t.Error("expected http.DefaultClient")
		}
		if f.maxBodySize != DefaultMaxBodySize {
			t.Errorf("expected max body size %d, got %d", DefaultMaxBodySize, f.maxBodySize)
		}
	})

	t.Run("non-positive max body size keeps default", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(nil, WithMaxBodySize(0))
		if f.maxBodySize != DefaultMaxBodySize {
			t.Errorf("expected default max body size, got %d", f.maxBodySize)
		}
	})
}
