// Package report writes search reports as Excel workbooks.
package report

import (
	"fmt"

	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	// MatchesSheet holds one row per matching page.
	MatchesSheet = "Matches"
	// FailuresSheet holds one row per document that could not be extracted.
	FailuresSheet = "Failures"
)

// WriteWorkbook saves r to path as an .xlsx workbook, overwriting any existing file.
func WriteWorkbook(path string, r *models.SearchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MatchesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(FailuresSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	matches := [][]interface{}{{"File", "Page"}}
	for _, m := range r.Matches {
		for _, page := range m.Pages {
			matches = append(matches, []interface{}{m.File, page})
		}
	}
	if err := writeRows(f, MatchesSheet, matches); err != nil {
		return err
	}

	failures := [][]interface{}{{"File", "Reason"}}
	for _, fail := range r.Failures {
		failures = append(failures, []interface{}{fail.File, fail.Reason})
	}
	if err := writeRows(f, FailuresSheet, failures); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
