package model

import (
	"strings"
	"testing"
	"time"
)

func TestCrawlSummary(t *testing.T) {
	t.Parallel()

	t.Run("ElapsedSeconds truncates", func(t *testing.T) {
		t.Parallel()

		s := &CrawlSummary{Elapsed: 2999 * time.Millisecond}
		if got := s.ElapsedSeconds(); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("failure helpers", func(t *testing.T) {
		t.Parallel()

		s := &CrawlSummary{}
		if s.HasFailures() || s.FailureCount() != 0 {
			t.Error("expected no failures")
		}
		s.Failures = append(s.Failures, Failure{URL: "u", Kind: "fetch"})
		if !s.HasFailures() || s.FailureCount() != 1 {
			t.Error("expected one failure")
		}
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	if got := ContentHash(""); got != "" {
		t.Errorf("expected empty hash for empty content, got %q", got)
	}

	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := ContentHash("abc"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if ContentHash("abc") == ContentHash("abd") {
		t.Error("expected different content to hash differently")
	}
	if len(ContentHash(strings.Repeat("x", 1000))) != 64 {
		t.Error("expected 64 hex characters")
	}
}

func TestNewCrawlRun(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &CrawlSummary{
		RunID:       "run",
		Seed:        "https://example.com/",
		TargetHost:  "example.com",
		OutputDir:   "static",
		StartedAt:   started,
		FinishedAt:  started.Add(time.Minute),
		Visited:     10,
		Pages:       8,
		Failures:    []Failure{{URL: "a"}, {URL: "b"}},
		Interrupted: true,
	}

	run := NewCrawlRun(s)
	if run.ID != "run" || run.Pages != 8 || run.Visited != 10 || run.Failures != 2 || !run.Interrupted {
		t.Errorf("unexpected run %+v", run)
	}
	if !run.Finished() {
		t.Error("expected run to be finished")
	}
	if (&CrawlRun{}).Finished() {
		t.Error("expected zero run to be unfinished")
	}
}

func TestFetchRecordSucceeded(t *testing.T) {
	t.Parallel()

	if !(&FetchRecord{StatusCode: 404}).Succeeded() {
		t.Error("a 404 page is still a successful fetch")
	}
	if (&FetchRecord{ErrorKind: "write"}).Succeeded() {
		t.Error("expected write failure to be unsuccessful")
	}
}
