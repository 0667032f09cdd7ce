package mirror

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestSinkDir tests URL to directory mapping.
func TestSinkDir(t *testing.T) {
	t.Parallel()

	root := filepath.Join("mirror", "root")
	s := NewSink(root)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"root with slash", "http://example.test/", root},
		{"root without slash", "http://example.test", root},
		{"single segment", "http://example.test/about", filepath.Join(root, "about")},
		{"trailing slash", "http://example.test/blog/", filepath.Join(root, "blog")},
		{"nested", "http://example.test/a/b/c", filepath.Join(root, "a", "b", "c")},
		{"query ignored", "http://example.test/search?q=x", filepath.Join(root, "search")},
		{"dot dot cannot escape", "http://example.test/../../etc", filepath.Join(root, "etc")},
		{"encoded path is decoded", "http://example.test/hello%20world", filepath.Join(root, "hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Dir(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Dir(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	t.Run("invalid URL", func(t *testing.T) {
		t.Parallel()

		if _, err := s.Dir("http://[::1"); err == nil {
			t.Error("expected error for invalid URL")
		}
	})
}

// TestSinkPersist tests writing pages to disk.
func TestSinkPersist(t *testing.T) {
	t.Parallel()

	t.Run("writes index.html under the URL path", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := NewSink(root)

		if err := s.Persist("http://example.test/docs/intro", "<p>intro</p>"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(root, "docs", "intro", IndexFile))
		if err != nil {
			t.Fatalf("failed to read mirrored file: %v", err)
		}
		if string(data) != "<p>intro</p>" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("seed goes to the root", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "static")
		s := NewSink(root)

		if err := s.PersistRoot("seed"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(root, IndexFile))
		if err != nil {
			t.Fatalf("failed to read root file: %v", err)
		}
		if string(data) != "seed" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("overwrites existing content", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		s := NewSink(root)

		for _, content := range []string{"first", "second"} {
			if err := s.Persist("http://example.test/page", content); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		file, err := s.File("http://example.test/page")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(file) //nolint:gosec // test file in TempDir
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(data) != "second" {
			t.Errorf("expected 'second', got %q", data)
		}
	})

	t.Run("reports directory creation failure", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		// A regular file where a directory is needed.
		blocker := filepath.Join(root, "blocked")
		if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		err := NewSink(root).Persist("http://example.test/blocked/page", "x")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "failed to create directory") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("reports write failure", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("directory permissions differ on windows")
		}
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}

		root := t.TempDir()
		dir := filepath.Join(root, "ro")
		if err := os.MkdirAll(dir, 0o500); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(dir, 0o700) }) //nolint:errcheck

		err := NewSink(root).Persist("http://example.test/ro", "x")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "failed to write") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
