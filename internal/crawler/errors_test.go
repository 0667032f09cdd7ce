package crawler

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

// TestCrawlErrors tests the two crawl error variants.
func TestCrawlErrors(t *testing.T) {
	t.Parallel()

	t.Run("FetchError message and cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := error(&FetchError{URL: "http://example.test/a", Err: cause})

		if err.Error() != "fetch http://example.test/a: connection refused" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the cause")
		}
	})

	t.Run("WriteError message and cause", func(t *testing.T) {
		t.Parallel()

		err := error(&WriteError{URL: "http://example.test/b", Err: fs.ErrPermission})

		if err.Error() != "write http://example.test/b: permission denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, fs.ErrPermission) {
			t.Error("expected errors.Is to find fs.ErrPermission")
		}
	})

	t.Run("errorKind distinguishes variants through wrapping", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			err  error
			want string
		}{
			{&FetchError{URL: "u", Err: errors.New("x")}, "fetch"},
			{&WriteError{URL: "u", Err: errors.New("x")}, "write"},
			{fmt.Errorf("seed: %w", &FetchError{URL: "u", Err: errors.New("x")}), "fetch"},
			{errors.New("plain"), "unknown"},
		}
		for _, tt := range tests {
			if got := errorKind(tt.err); got != tt.want {
				t.Errorf("errorKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		}
	})

	t.Run("asFetchError keeps existing FetchError", func(t *testing.T) {
		t.Parallel()

		orig := &FetchError{URL: "a", Err: errors.New("x")}
		if got := asFetchError("b", orig); got != error(orig) {
			t.Errorf("expected original error, got %v", got)
		}

		wrapped := asFetchError("b", errors.New("y"))
		var fetchErr *FetchError
		if !errors.As(wrapped, &fetchErr) || fetchErr.URL != "b" {
			t.Errorf("expected FetchError for b, got %v", wrapped)
		}
	})
}
