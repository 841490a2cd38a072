package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// MockPageSeparator separates pages in a mock document.
	MockPageSeparator = "\f"
	// MockBrokenPrefix marks a mock document that fails to decode.
	MockBrokenPrefix = "%MOCK-BROKEN"
)

// MockDecoder is a deterministic decoder for tests. It reads the file as UTF-8 text
// with pages separated by form feeds. An empty file has zero pages, and a file that
// starts with MockBrokenPrefix fails to open.
type MockDecoder struct{}

// NewMockDecoder returns a MockDecoder.
func NewMockDecoder() *MockDecoder {
	return &MockDecoder{}
}

// MockDocumentBytes returns file content that MockDecoder decodes into the given pages.
func MockDocumentBytes(pages ...string) []byte {
	return []byte(strings.Join(pages, MockPageSeparator))
}

// MockBrokenBytes returns file content that MockDecoder refuses to open.
func MockBrokenBytes(reason string) []byte {
	return []byte(MockBrokenPrefix + " " + reason)
}

// Open reads the whole content and splits it into pages.
func (d *MockDecoder) Open(r io.ReaderAt, size int64) (Document, error) {
	content, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("read mock document: %w", err)
	}
	s := string(content)
	if strings.HasPrefix(s, MockBrokenPrefix) {
		reason := strings.TrimSpace(strings.TrimPrefix(s, MockBrokenPrefix))
		if reason == "" {
			reason = "malformed document"
		}
		return nil, errors.New(reason)
	}
	if s == "" {
		return &mockDocument{}, nil
	}
	return &mockDocument{pages: strings.Split(s, MockPageSeparator)}, nil
}

type mockDocument struct {
	pages []string
}

func (d *mockDocument) NumPages() int {
	return len(d.pages)
}

func (d *mockDocument) PageText(index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", fmt.Errorf("page %d out of range", index)
	}
	return sanitizeText(d.pages[index]), nil
}
