package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/html/charset"
)

// DefaultMaxBodySize is the largest response body accepted.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Page is a fetched document.
type Page struct {
	// URL is the URL that was requested.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Status is the status line text, e.g. "200 OK".
	Status string

	// ContentType is the response Content-Type header.
	ContentType string

	// Body is the raw response body, exactly as received.
	Body string

	// Text is Body decoded to UTF-8 using the declared charset.
	Text string
}

// Document returns the UTF-8 text to parse for links.
// Pages built without a decoded form fall back to Body.
func (p *Page) Document() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Body
}

// Fetcher retrieves a page. Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// HTTPFetcher fetches pages over HTTP with a shared client.
// It never retries, and any status code the transport delivers is a success.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	cookie      string
	headers     map[string]string
	maxBodySize int64
	console     *Console
	logger      *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the largest body accepted. Larger bodies fail with
// ErrBodyTooLarge. Values <= 0 keep the default.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithFetchConsole sets where status lines are printed.
func WithFetchConsole(c *Console) FetcherOption {
	return func(f *HTTPFetcher) {
		f.console = c
	}
}

// WithFetchLogger sets the logger for request diagnostics.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher returns an HTTPFetcher using client.
// A nil client means http.DefaultClient.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &HTTPFetcher{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.console == nil {
		f.console = NewConsole(nil)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch GETs pageURL and returns its body.
// Transport failures, body read failures and bodies larger than the
// configured maximum are returned as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	f.logger.Debug("fetching page", "url", pageURL, "cookie", f.cookie)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	f.console.FetchStatus(pageURL, resp.Status)

	// One byte past the cap tells an exact fit from an oversized body.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if int64(len(raw)) > f.maxBodySize {
		return nil, &FetchError{
			URL: pageURL,
			Err: fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	text, err := decode(raw, contentType)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	return &Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: contentType,
		Body:        string(raw),
		Text:        text,
	}, nil
}

// decode converts raw to UTF-8 using the charset from contentType or the
// document's own meta declaration.
func decode(raw []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
