package extract

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestExtract_mockPages(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.pdf", MockDocumentBytes("hello world", "foo bar"))

	e := NewExtractor(WithDecoder(NewMockDecoder()))
	got := e.Extract(path)
	if got.Failed() {
		t.Fatalf("Extract failed: %v", got.Err)
	}
	if got.PageCount != 2 {
		t.Fatalf("PageCount = %d, want 2", got.PageCount)
	}
	pages := got.PageMap()
	if pages[0] != "hello world" || pages[1] != "foo bar" {
		t.Errorf("pages = %v", pages)
	}
}

func TestExtract_keysAreContiguous(t *testing.T) {
	dir := t.TempDir()
	texts := []string{"one", "", "three", "", "five", "six"}
	path := writeFile(t, dir, "many.pdf", MockDocumentBytes(texts...))

	got := NewExtractor(WithDecoder(NewMockDecoder())).Extract(path)
	pages := got.PageMap()
	if len(pages) != len(texts) {
		t.Fatalf("len(pages) = %d, want %d", len(pages), len(texts))
	}
	for i := range texts {
		text, ok := pages[i]
		if !ok {
			t.Fatalf("missing page %d", i)
		}
		if text != texts[i] {
			t.Errorf("page %d = %q, want %q", i, text, texts[i])
		}
	}
}

func TestExtract_emptyDocumentIsNotFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.pdf", nil)
	logger, logs := observedLogger()

	got := NewExtractor(WithDecoder(NewMockDecoder()), WithLogger(logger)).Extract(path)
	if got.Failed() {
		t.Fatalf("empty document reported as failure: %v", got.Err)
	}
	if len(got.PageMap()) != 0 {
		t.Errorf("pages = %v, want none", got.PageMap())
	}
	if n := logs.FilterMessage("extraction failed").Len(); n != 0 {
		t.Errorf("got %d failure diagnostics, want 0", n)
	}
}

func TestExtract_failureLogsOnceAndDegrades(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", MockBrokenBytes("bad xref table"))
	logger, logs := observedLogger()

	got := NewExtractor(WithDecoder(NewMockDecoder()), WithLogger(logger)).Extract(path)
	if !got.Failed() {
		t.Fatal("expected failure")
	}
	if len(got.PageMap()) != 0 {
		t.Errorf("failed extraction should have empty page map, got %v", got.PageMap())
	}
	entries := logs.FilterMessage("extraction failed").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != path {
		t.Errorf("diagnostic path = %v, want %s", fields["path"], path)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("diagnostic level = %v, want warn", entries[0].Level)
	}
}

func TestExtract_missingFile(t *testing.T) {
	logger, logs := observedLogger()
	got := NewExtractor(WithLogger(logger)).Extract("/nonexistent/path/file.pdf")
	if !got.Failed() {
		t.Fatal("expected failure for nonexistent file")
	}
	if !errors.Is(got.Err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", got.Err)
	}
	if logs.Len() != 1 {
		t.Errorf("got %d log entries, want 1", logs.Len())
	}
}

func TestExtract_directoryPath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "folder.pdf")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	got := NewExtractor(WithDecoder(NewMockDecoder())).Extract(sub)
	if !got.Failed() {
		t.Error("extracting a directory should fail")
	}
}

type panickingDecoder struct{}

func (panickingDecoder) Open(io.ReaderAt, int64) (Document, error) {
	panic("malformed object stream")
}

func TestExtract_recoversDecoderPanic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "panic.pdf", []byte("%PDF-1.4"))
	logger, logs := observedLogger()

	got := NewExtractor(WithDecoder(panickingDecoder{}), WithLogger(logger)).Extract(path)
	if !got.Failed() {
		t.Fatal("expected failure after decoder panic")
	}
	if logs.FilterMessage("extraction failed").Len() != 1 {
		t.Error("expected one diagnostic after panic")
	}
}

type failingPageDecoder struct{}

type failingPageDocument struct{}

func (failingPageDecoder) Open(io.ReaderAt, int64) (Document, error) {
	return failingPageDocument{}, nil
}

func (failingPageDocument) NumPages() int { return 3 }

func (failingPageDocument) PageText(i int) (string, error) {
	if i == 1 {
		return "", errors.New("unsupported font encoding")
	}
	return "ok", nil
}

func TestExtract_pageFailureFailsWholeDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "font.pdf", []byte("x"))

	got := NewExtractor(WithDecoder(failingPageDecoder{})).Extract(path)
	if !got.Failed() {
		t.Fatal("expected failure when one page fails")
	}
	if len(got.PageMap()) != 0 {
		t.Errorf("page map should be empty on failure, got %v", got.PageMap())
	}
}

func TestMockDecoder_invalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bin.pdf", []byte("hello\x80world"))
	got := NewExtractor(WithDecoder(NewMockDecoder())).Extract(path)
	if got.PageMap()[0] != "hello\uFFFDworld" {
		t.Errorf("got %q", got.PageMap()[0])
	}
}
