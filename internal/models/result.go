package models

// FileMatch lists the pages of one file on which the pattern matched, ascending.
type FileMatch struct {
	File  string `json:"file"`
	Pages []int  `json:"pages"`
}

// FileFailure names a document that could not be extracted during a search.
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// SearchReport is the result of a directory-wide search.
// Matches keep directory listing order; files without a match are absent.
// Failures never appear in Matches.
type SearchReport struct {
	ID       string        `json:"id"`
	Pattern  string        `json:"pattern"`
	Matches  []FileMatch   `json:"matches"`
	Failures []FileFailure `json:"failures,omitempty"`
	Files    int           `json:"files_scanned"`
	// QueryTime is the wall time of the scan in milliseconds.
	QueryTime int64 `json:"query_time_ms"`
}

// MatchMap returns the matches as file name -> page indices.
func (r *SearchReport) MatchMap() map[string][]int {
	out := make(map[string][]int, len(r.Matches))
	for _, m := range r.Matches {
		out[m.File] = m.Pages
	}
	return out
}

// TotalPages returns the number of matching pages across all files.
func (r *SearchReport) TotalPages() int {
	n := 0
	for _, m := range r.Matches {
		n += len(m.Pages)
	}
	return n
}

// ExportResult describes one completed export.
type ExportResult struct {
	Source string       `json:"source"`
	Output string       `json:"output"`
	Format ExportFormat `json:"format"`
	Pages  int          `json:"pages"`
	// Failure is set when the source could not be extracted; the output is then empty.
	Failure string `json:"failure,omitempty"`
}
