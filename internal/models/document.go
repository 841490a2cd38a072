// Package models defines core data structures for extracted documents, searches, and exports.
package models

import (
	"fmt"
	"sort"
	"strconv"
)

// PageText is the extracted text of one zero-indexed page.
type PageText struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ExtractionError records why a document could not be extracted.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extraction is the result of extracting one document. It is either a success
// holding a page mapping whose keys are exactly 0..PageCount-1, or a failure
// holding Err. A successful document may legitimately have zero pages.
type Extraction struct {
	Path      string           `json:"path"`
	Pages     map[int]string   `json:"pages"`
	PageCount int              `json:"page_count"`
	Err       *ExtractionError `json:"-"`
}

// NewExtraction returns a successful extraction for path.
func NewExtraction(path string, pages map[int]string) *Extraction {
	if pages == nil {
		pages = map[int]string{}
	}
	return &Extraction{Path: path, Pages: pages, PageCount: len(pages)}
}

// FailedExtraction returns a failed extraction for path with the given cause.
func FailedExtraction(path string, err error) *Extraction {
	return &Extraction{
		Path:  path,
		Pages: map[int]string{},
		Err:   &ExtractionError{Path: path, Err: err},
	}
}

// Failed reports whether the document could not be extracted.
func (e *Extraction) Failed() bool {
	return e.Err != nil
}

// FailureReason returns the cause of a failed extraction, or "" on success.
func (e *Extraction) FailureReason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Err.Error()
}

// PageMap returns page index -> text. A failed extraction yields an empty map.
func (e *Extraction) PageMap() map[int]string {
	if e.Failed() || e.Pages == nil {
		return map[int]string{}
	}
	return e.Pages
}

// SortedPages returns the pages in ascending index order.
func (e *Extraction) SortedPages() []PageText {
	pages := e.PageMap()
	out := make([]PageText, 0, len(pages))
	for idx, text := range pages {
		out = append(out, PageText{Index: idx, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ExtractionView is the JSON shape of one extracted document. Page keys are decimal indices.
type ExtractionView struct {
	Path    string            `json:"path"`
	Pages   map[string]string `json:"pages"`
	Count   int               `json:"page_count"`
	Failure string            `json:"failure,omitempty"`
}

// View converts e for JSON output.
func (e *Extraction) View() ExtractionView {
	pages := e.PageMap()
	view := ExtractionView{
		Path:    e.Path,
		Pages:   make(map[string]string, len(pages)),
		Count:   len(pages),
		Failure: e.FailureReason(),
	}
	for idx, text := range pages {
		view.Pages[strconv.Itoa(idx)] = text
	}
	return view
}

// DocumentList is the JSON shape of a directory listing.
type DocumentList struct {
	Directory string   `json:"directory"`
	Documents []string `json:"documents"`
}
