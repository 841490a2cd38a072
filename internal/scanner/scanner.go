// Package scanner lists candidate document files in a directory.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the document extension listed when none is configured.
const DefaultExtension = ".pdf"

// ErrNotDirectory is returned when the scanned path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Scanner lists the documents of a single directory, without recursion.
type Scanner struct {
	dir             string
	extension       string
	caseInsensitive bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtension sets the document extension (with or without the leading dot).
func WithExtension(ext string) Option {
	return func(s *Scanner) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extension = ext
	}
}

// WithCaseInsensitive makes the extension match ignore case (".PDF" matches ".pdf").
func WithCaseInsensitive(enabled bool) Option {
	return func(s *Scanner) { s.caseInsensitive = enabled }
}

// New returns a Scanner for dir. It fails immediately if dir does not exist
// or is not a directory.
func New(dir string, opts ...Option) (*Scanner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}
	s := &Scanner{dir: dir, extension: DefaultExtension}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Extension returns the configured document extension.
func (s *Scanner) Extension() string {
	return s.extension
}

// List returns the names of directory entries that end with the document extension,
// in directory listing order. Subdirectories are never listed, even when their name matches.
func (s *Scanner) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s.Matches(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Matches reports whether name ends with the document extension.
func (s *Scanner) Matches(name string) bool {
	if s.caseInsensitive {
		return strings.HasSuffix(strings.ToLower(name), strings.ToLower(s.extension))
	}
	return strings.HasSuffix(name, s.extension)
}

// Path joins a listed name with the scanned directory.
func (s *Scanner) Path(name string) string {
	return filepath.Join(s.dir, name)
}
