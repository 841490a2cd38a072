package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/pdfsift/internal/extract"
	"github.com/hyperjump/pdfsift/internal/models"
)

// countingExtractor counts calls to the wrapped extractor.
type countingExtractor struct {
	inner *extract.Extractor
	calls map[string]int
}

func newCounting() *countingExtractor {
	return &countingExtractor{
		inner: extract.NewExtractor(extract.WithDecoder(extract.NewMockDecoder())),
		calls: map[string]int{},
	}
}

func (c *countingExtractor) Extract(path string) *models.Extraction {
	c.calls[path]++
	return c.inner.Extract(path)
}

func writeDoc(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestExtractionCache_hit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	writeDoc(t, path, extract.MockDocumentBytes("hello", "world"))
	inner := newCounting()
	c, err := New(inner, 4)
	if err != nil {
		t.Fatal(err)
	}

	first := c.Extract(path)
	second := c.Extract(path)
	if inner.calls[path] != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls[path])
	}
	if first != second {
		t.Error("expected the cached extraction to be returned")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestExtractionCache_changedFileIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	writeDoc(t, path, extract.MockDocumentBytes("hello"))
	inner := newCounting()
	c, err := New(inner, 4)
	if err != nil {
		t.Fatal(err)
	}
	c.Extract(path)

	writeDoc(t, path, extract.MockDocumentBytes("hello", "again"))
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	got := c.Extract(path)
	if inner.calls[path] != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls[path])
	}
	if got.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", got.PageCount)
	}
}

func TestExtractionCache_failuresNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	writeDoc(t, path, extract.MockBrokenBytes("bad xref"))
	inner := newCounting()
	c, err := New(inner, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !c.Extract(path).Failed() {
			t.Fatal("expected failure")
		}
	}
	if inner.calls[path] != 3 {
		t.Errorf("inner called %d times, want 3", inner.calls[path])
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestExtractionCache_invalidateAndPurge(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	writeDoc(t, a, extract.MockDocumentBytes("a"))
	writeDoc(t, b, extract.MockDocumentBytes("b"))
	inner := newCounting()
	c, err := New(inner, 4)
	if err != nil {
		t.Fatal(err)
	}
	c.Extract(a)
	c.Extract(b)

	c.Invalidate(a)
	c.Extract(a)
	c.Extract(b)
	if inner.calls[a] != 2 || inner.calls[b] != 1 {
		t.Errorf("calls after Invalidate = %v", inner.calls)
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
	c.Extract(b)
	if inner.calls[b] != 2 {
		t.Errorf("b calls after Purge = %d, want 2", inner.calls[b])
	}
}

func TestExtractionCache_evictsOldest(t *testing.T) {
	dir := t.TempDir()
	inner := newCounting()
	c, err := New(inner, 2)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"a.pdf", "b.pdf", "c.pdf"}
	for _, name := range names {
		p := filepath.Join(dir, name)
		writeDoc(t, p, extract.MockDocumentBytes(name))
		c.Extract(p)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	oldest := filepath.Join(dir, "a.pdf")
	c.Extract(oldest)
	if inner.calls[oldest] != 2 {
		t.Errorf("a.pdf should have been evicted, calls = %d", inner.calls[oldest])
	}
}

func TestNew_defaultSize(t *testing.T) {
	c, err := New(newCounting(), 0)
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}
	if c.entries.Len() != 0 {
		t.Error("new cache should be empty")
	}
}
