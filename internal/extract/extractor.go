// Package extract provides page-indexed text extraction from document files.
package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/pdfsift/internal/models"
	"go.uber.org/zap"
)

// Decoder opens an encoded document. Implementations must not retain r after
// the returned Document is no longer used.
type Decoder interface {
	Open(r io.ReaderAt, size int64) (Document, error)
}

// Document is an opened document with zero-indexed pages.
type Document interface {
	NumPages() int
	PageText(index int) (string, error)
}

// Extractor extracts page text from document files using a Decoder.
type Extractor struct {
	decoder Decoder
	logger  *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger that receives per-document failure diagnostics.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDecoder replaces the default PDF decoder.
func WithDecoder(d Decoder) ExtractorOption {
	return func(e *Extractor) {
		if d != nil {
			e.decoder = d
		}
	}
}

// NewExtractor returns an Extractor backed by the PDF decoder unless WithDecoder is given.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		decoder: NewPDFDecoder(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract opens the file at path and returns the text of every page.
// It never returns an error: any open, decode or per-page failure is logged once
// and reported as a failed Extraction whose PageMap is empty.
func (e *Extractor) Extract(path string) *models.Extraction {
	pages, err := e.extractPages(path)
	if err != nil {
		e.logger.Warn("extraction failed", zap.String("path", path), zap.Error(err))
		return models.FailedExtraction(path, err)
	}
	e.logger.Debug("document extracted", zap.String("path", path), zap.Int("pages", len(pages)))
	return models.NewExtraction(path, pages)
}

func (e *Extractor) extractPages(path string) (pages map[int]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	// The PDF library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()

	doc, err := e.decoder.Open(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	numPages := doc.NumPages()
	if numPages < 0 {
		return nil, fmt.Errorf("invalid page count %d", numPages)
	}
	pages = make(map[int]string, numPages)
	for i := 0; i < numPages; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages[i] = text
	}
	return pages, nil
}
