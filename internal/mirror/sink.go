package mirror

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// IndexFile is the file name every page is written to.
const IndexFile = "index.html"

// Sink mirrors page content below Root.
// Only the URL path selects the file. URLs differing in scheme, query or
// fragment share one file, and the last write wins. Callers that persist
// such URLs concurrently must order those writes themselves; File reports
// which URLs collide.
type Sink struct {
	// Root is the directory holding the mirror.
	Root string

	// dirPerm and filePerm are the permissions for created entries.
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewSink returns a Sink rooted at root.
func NewSink(root string) *Sink {
	return &Sink{
		Root:     root,
		dirPerm:  0o750,
		filePerm: 0o644,
	}
}

// PersistRoot writes content to <Root>/index.html.
func (s *Sink) PersistRoot(content string) error {
	return s.write(s.Root, content)
}

// Persist writes content to <Root>/<path of pageURL>/index.html.
// A partially created directory tree is left in place on failure.
func (s *Sink) Persist(pageURL, content string) error {
	dir, err := s.Dir(pageURL)
	if err != nil {
		return err
	}
	return s.write(dir, content)
}

// Dir returns the directory that holds the mirror of pageURL.
// The URL path is cleaned as a rooted path first, so ".." segments can never
// climb above Root.
func (s *Sink) Dir(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	rel := path.Clean("/" + u.Path)
	return filepath.Join(s.Root, filepath.FromSlash(rel)), nil
}

// File returns the index file path for pageURL.
// It implements crawler.Locator.
func (s *Sink) File(pageURL string) (string, error) {
	dir, err := s.Dir(pageURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, IndexFile), nil
}

func (s *Sink) write(dir, content string) error {
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	file := filepath.Join(dir, IndexFile)
	if err := os.WriteFile(file, []byte(content), s.filePerm); err != nil { //nolint:gosec // mirrored pages are meant to be readable
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}
