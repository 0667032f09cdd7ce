package crawler

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConsole(t *testing.T) {
	t.Parallel()

	t.Run("progress lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		c := NewConsole(&buf)
		c.FetchStatus("https://example.com/a", "200 OK")
		c.Visited("https://example.com/a", 3)
		c.NewURLs(2)
		c.Elapsed(3500 * time.Millisecond)

		want := "Status for https://example.com/a: 200 OK\n" +
			"Visited: https://example.com/a found 3 links\n" +
			"New urls: 2\n" +
			"Elapsed time: 3\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("failure block", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		c := NewConsole(&buf)
		c.Failures(nil)
		c.Failures([]error{
			&FetchError{URL: "https://example.com/x", Err: errors.New("refused")},
		})

		want := "Errors: none\n" +
			"Errors: 1\n" +
			"  - fetch https://example.com/x: refused\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("nil writer discards", func(t *testing.T) {
		t.Parallel()

		c := NewConsole(nil)
		c.NewURLs(1)
	})

	t.Run("concurrent writes keep whole lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		c := NewConsole(&buf)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Visited("https://example.com/p", 1)
			}()
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 50 {
			t.Fatalf("expected 50 lines, got %d", len(lines))
		}
		for _, line := range lines {
			if line != "Visited: https://example.com/p found 1 links" {
				t.Fatalf("interleaved line %q", line)
			}
		}
	})
}
