package report

import (
	"path/filepath"
	"testing"

	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	r := &models.SearchReport{
		ID:      "r1",
		Pattern: "hello",
		Matches: []models.FileMatch{
			{File: "a.pdf", Pages: []int{0, 3}},
			{File: "c.pdf", Pages: []int{2}},
		},
		Failures: []models.FileFailure{{File: "broken.pdf", Reason: "unexpected EOF"}},
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteWorkbook(path, r); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(MatchesSheet)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"File", "Page"},
		{"a.pdf", "0"},
		{"a.pdf", "3"},
		{"c.pdf", "2"},
	}
	if len(rows) != len(want) {
		t.Fatalf("Matches rows = %v", rows)
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	failures, err := f.GetRows(FailuresSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 2 || failures[1][0] != "broken.pdf" || failures[1][1] != "unexpected EOF" {
		t.Errorf("Failures rows = %v", failures)
	}
}

func TestWriteWorkbook_emptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteWorkbook(path, &models.SearchReport{Pattern: "zzz"}); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != MatchesSheet || sheets[1] != FailuresSheet {
		t.Errorf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(MatchesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %v", rows)
	}
}
