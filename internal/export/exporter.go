// Package export serializes extracted page text to TXT, CSV and JSON files.
package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hyperjump/pdfsift/internal/models"
)

// csvTextColumn names the page text column; the page index column has an empty header.
const csvTextColumn = "Text"

// OutputPath returns the file written for base in the given format: "<base>.<ext>".
func OutputPath(base string, format models.ExportFormat) string {
	return base + "." + format.Extension()
}

// WriteFile parses format, then creates or overwrites "<base>.<ext>" with the pages
// of ext. An unsupported format returns *models.UnsupportedFormatError and writes nothing.
// The write is not atomic.
func WriteFile(ext *models.Extraction, base string, format string) (string, error) {
	f, err := models.ParseExportFormat(format)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Write(&buf, ext, f); err != nil {
		return "", err
	}
	path := OutputPath(base, f)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Write renders the pages of ext to w, in ascending page order.
func Write(w io.Writer, ext *models.Extraction, format models.ExportFormat) error {
	pages := ext.SortedPages()
	switch format {
	case models.FormatText:
		return writeText(w, pages)
	case models.FormatCSV:
		return writeCSV(w, pages)
	case models.FormatJSON:
		return writeJSON(w, pages)
	default:
		return &models.UnsupportedFormatError{Format: string(format)}
	}
}

func writeText(w io.Writer, pages []models.PageText) error {
	bw := bufio.NewWriter(w)
	for _, p := range pages {
		if _, err := fmt.Fprintf(bw, "Page %d:\n%s\n", p.Index, p.Text); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return bw.Flush()
}

func writeCSV(w io.Writer, pages []models.PageText) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", csvTextColumn}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range pages {
		if err := cw.Write([]string{strconv.Itoa(p.Index), p.Text}); err != nil {
			return fmt.Errorf("write csv row %d: %w", p.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON emits keys in ascending numeric order so repeated exports are byte-identical.
// encoding/json would sort the keys as strings ("10" before "2").
func writeJSON(w io.Writer, pages []models.PageText) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pages {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(strconv.Itoa(p.Index))
		if err != nil {
			return fmt.Errorf("encode key %d: %w", p.Index, err)
		}
		value, err := marshalString(p.Text)
		if err != nil {
			return fmt.Errorf("encode page %d: %w", p.Index, err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	buf.WriteByte('}')
	_, err := w.Write(buf.Bytes())
	return err
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
