package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExtraction() *models.Extraction {
	return models.NewExtraction("a.pdf", map[int]string{0: "hello world", 1: "foo bar"})
}

func TestWriteFile_textMixedCaseFormat(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a.pdf")
	path, err := WriteFile(sampleExtraction(), base, "TXT")
	require.NoError(t, err)
	assert.Equal(t, base+".txt", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Page 0:\nhello world\nPage 1:\nfoo bar\n", string(data))
}

func TestWriteFile_unsupportedFormatWritesNothing(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "a.pdf")
	_, err := WriteFile(sampleExtraction(), base, "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedFormat))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be created for an unsupported format")
}

func TestWriteFile_csv(t *testing.T) {
	ext := models.NewExtraction("a.pdf", map[int]string{
		0: "plain",
		1: "with, comma",
		2: "multi\nline \"quoted\"",
	})
	base := filepath.Join(t.TempDir(), "a.pdf")
	path, err := WriteFile(ext, base, "csv")
	require.NoError(t, err)
	assert.Equal(t, base+".csv", path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"", "Text"}, records[0])
	for i := 0; i < 3; i++ {
		assert.Equal(t, strconv.Itoa(i), records[i+1][0])
		assert.Equal(t, ext.Pages[i], records[i+1][1])
	}
}

func TestWriteFile_jsonRoundTrip(t *testing.T) {
	pages := map[int]string{}
	for i := 0; i < 12; i++ {
		pages[i] = "page <" + strconv.Itoa(i) + "> & \"more\""
	}
	ext := models.NewExtraction("big.pdf", pages)
	base := filepath.Join(t.TempDir(), "big.pdf")
	path, err := WriteFile(ext, base, "Json")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(pages))
	for idx, text := range pages {
		assert.Equal(t, text, decoded[strconv.Itoa(idx)])
	}
	assert.True(t, bytes.HasPrefix(data, []byte(`{"0": `)), "keys should start at page 0: %s", data)
}

func TestWriteFile_idempotent(t *testing.T) {
	for _, format := range []string{"txt", "csv", "json"} {
		t.Run(format, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "a.pdf")
			first, err := WriteFile(sampleExtraction(), base, format)
			require.NoError(t, err)
			firstData, err := os.ReadFile(first)
			require.NoError(t, err)

			second, err := WriteFile(sampleExtraction(), base, format)
			require.NoError(t, err)
			secondData, err := os.ReadFile(second)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, firstData, secondData)
		})
	}
}

func TestWriteFile_overwritesLongerFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(base+".txt", bytes.Repeat([]byte("x"), 4096), 0644))
	path, err := WriteFile(sampleExtraction(), base, "txt")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Page 0:\nhello world\nPage 1:\nfoo bar\n", string(data))
}

func TestWrite_failedExtractionIsEmpty(t *testing.T) {
	failed := models.FailedExtraction("x.pdf", errors.New("boom"))
	tests := []struct {
		format models.ExportFormat
		want   string
	}{
		{models.FormatText, ""},
		{models.FormatCSV, ",Text\n"},
		{models.FormatJSON, "{}"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, failed, tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWrite_unknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleExtraction(), models.ExportFormat("xml"))
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}
