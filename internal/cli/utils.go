// Package cli provides output writers and helpers for the pdfsift command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/hyperjump/pdfsift/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact prints one line per matching file ("name<TAB>0,3,7"), for piping.
	OutputCompact OutputFormat = "compact"
)

// ParseOutputFormat parses s case-insensitively. The empty string means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON, OutputCompact:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or compact)", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteDocuments writes the documents of dir to w.
func WriteDocuments(w io.Writer, dir string, names []string, format OutputFormat) error {
	if names == nil {
		names = []string{}
	}
	switch format {
	case OutputJSON:
		return writeJSON(w, models.DocumentList{Directory: dir, Documents: names})
	case OutputCompact:
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		return nil
	default:
		fmt.Fprintf(w, "%d documents in %s\n", len(names), dir)
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return nil
	}
}

// WriteExtraction writes the pages of ext to w. In text mode each page is cut to
// preview runes when preview is positive.
func WriteExtraction(w io.Writer, ext *models.Extraction, format OutputFormat, preview int) error {
	if format == OutputJSON {
		return writeJSON(w, ext.View())
	}
	if ext.Failed() {
		fmt.Fprintf(w, "%s: extraction failed: %s\n", ext.Path, ext.FailureReason())
		return nil
	}
	pages := ext.SortedPages()
	fmt.Fprintf(w, "%s: %d pages\n", ext.Path, len(pages))
	for _, p := range pages {
		fmt.Fprintf(w, "\n--- Page %d ---\n%s\n", p.Index, utils.Truncate(p.Text, preview))
	}
	return nil
}

// WriteSearchReport writes a search report to w in the given format.
func WriteSearchReport(w io.Writer, report *models.SearchReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, report)
	case OutputCompact:
		for _, m := range report.Matches {
			fmt.Fprintf(w, "%s\t%s\n", m.File, joinPages(m.Pages))
		}
		return nil
	default:
		writeSearchReportText(w, report)
		return nil
	}
}

func writeSearchReportText(w io.Writer, report *models.SearchReport) {
	fmt.Fprintf(w, "\nFound %d matching pages in %d of %d documents in %dms\n\n",
		report.TotalPages(), len(report.Matches), report.Files, report.QueryTime)
	for _, m := range report.Matches {
		fmt.Fprintf(w, "%s: pages %s\n", m.File, joinPages(m.Pages))
	}
	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "\n%d documents could not be read:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.File, f.Reason)
		}
	}
}

// WriteExportResult writes the outcome of one export.
func WriteExportResult(w io.Writer, res *models.ExportResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, res)
	}
	if res.Failure != "" {
		fmt.Fprintf(w, "%s -> %s (empty, extraction failed: %s)\n", res.Source, res.Output, res.Failure)
		return nil
	}
	fmt.Fprintf(w, "%s -> %s (%d pages)\n", res.Source, res.Output, res.Pages)
	return nil
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// Suggest returns the candidate closest to name by edit distance, ignoring case.
// It reports false when nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) (string, bool) {
	target := strings.ToLower(name)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.Distance(target, strings.ToLower(c), nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > maxSuggestDistance(name) {
		return "", false
	}
	return best, true
}

func maxSuggestDistance(name string) int {
	if n := len([]rune(name)) / 3; n > 2 {
		return n
	}
	return 2
}
