package models

import (
	"errors"
	"fmt"
	"strings"
)

// ExportFormat is a serialization for extracted text.
type ExportFormat string

const (
	// FormatText writes "Page {n}:" headers followed by the page text.
	FormatText ExportFormat = "txt"
	// FormatCSV writes one row per page.
	FormatCSV ExportFormat = "csv"
	// FormatJSON writes an object keyed by page index.
	FormatJSON ExportFormat = "json"
)

// ErrUnsupportedFormat is matched by errors.Is for any UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError is returned for a format outside txt, csv and json.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("invalid format %s: choose from TXT, CSV, JSON", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseExportFormat parses s case-insensitively.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// Extension returns the file extension for the format, without the dot.
func (f ExportFormat) Extension() string {
	return string(f)
}
