// Package pipeline ties the scanner, extractor, search engine and exporter to one
// configured document directory.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/pdfsift/internal/cache"
	"github.com/hyperjump/pdfsift/internal/export"
	"github.com/hyperjump/pdfsift/internal/extract"
	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/hyperjump/pdfsift/internal/scanner"
	"github.com/hyperjump/pdfsift/internal/search"
	"go.uber.org/zap"
)

type options struct {
	logger          *zap.Logger
	decoder         extract.Decoder
	extension       string
	caseInsensitive bool
	workers         int
	cacheSize       int
}

// Option configures a Processor.
type Option func(*options)

// WithLogger sets the logger that receives extraction diagnostics and debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDecoder replaces the PDF decoder.
func WithDecoder(d extract.Decoder) Option {
	return func(o *options) { o.decoder = d }
}

// WithExtension sets the listed document extension (default ".pdf").
func WithExtension(ext string) Option {
	return func(o *options) { o.extension = ext }
}

// WithCaseInsensitiveExtension makes the extension filter ignore case.
func WithCaseInsensitiveExtension(enabled bool) Option {
	return func(o *options) { o.caseInsensitive = enabled }
}

// WithWorkers sets how many documents a search extracts concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCache enables an extraction cache of the given size. Zero disables it.
func WithCache(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// extractor is satisfied by both the plain and the caching extractor.
type extractor interface {
	Extract(path string) *models.Extraction
}

// Processor is bound to one document directory for its whole lifetime. Apart from
// the optional extraction cache it keeps no state between calls.
type Processor struct {
	scanner   *scanner.Scanner
	extractor extractor
	cache     *cache.ExtractionCache
	engine    *search.Engine
	logger    *zap.Logger
}

// New validates dir and returns a Processor for it. A missing path or a path that is
// not a directory yields *ConfigurationError.
func New(dir string, opts ...Option) (*Processor, error) {
	o := options{logger: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := scanner.New(dir,
		scanner.WithExtension(o.extension),
		scanner.WithCaseInsensitive(o.caseInsensitive),
	)
	if err != nil {
		return nil, &ConfigurationError{Dir: dir, Err: err}
	}

	p := &Processor{scanner: s, logger: o.logger}
	base := extract.NewExtractor(extract.WithDecoder(o.decoder), extract.WithLogger(o.logger))
	p.extractor = base
	if o.cacheSize > 0 {
		c, err := cache.New(base, o.cacheSize, cache.WithLogger(o.logger))
		if err != nil {
			return nil, fmt.Errorf("create extraction cache: %w", err)
		}
		p.cache = c
		p.extractor = c
	}
	p.engine = search.NewEngine(s, p.extractor,
		search.WithWorkers(o.workers),
		search.WithLogger(o.logger),
	)
	return p, nil
}

// Dir returns the document directory.
func (p *Processor) Dir() string {
	return p.scanner.Dir()
}

// ListDocuments returns the document names of the directory in listing order.
func (p *Processor) ListDocuments() ([]string, error) {
	return p.scanner.List()
}

// Resolve maps a bare document name to its path inside the directory. Names with a
// path component and names that are not listed yield ErrDocumentNotFound.
func (p *Processor) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%q: %w", name, ErrDocumentNotFound)
	}
	names, err := p.scanner.List()
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == name {
			return p.scanner.Path(n), nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrDocumentNotFound)
}

// Extract returns the page text of the document at path. Failures are carried in
// the result and logged once.
func (p *Processor) Extract(path string) *models.Extraction {
	return p.extractor.Extract(path)
}

// Search runs pattern over every document of the directory.
func (p *Processor) Search(ctx context.Context, pattern string) (*models.SearchReport, error) {
	return p.engine.Search(ctx, pattern)
}

// Export extracts the document at path and writes it to "<path>.<ext>". The format is
// checked before extraction. A document that fails to extract still produces an empty
// output file, and the result carries the failure reason.
func (p *Processor) Export(path string, format string) (*models.ExportResult, error) {
	f, err := models.ParseExportFormat(format)
	if err != nil {
		return nil, err
	}
	ext := p.extractor.Extract(path)
	out, err := export.WriteFile(ext, path, string(f))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("document exported",
		zap.String("path", path),
		zap.String("output", out),
		zap.String("format", string(f)),
	)
	return &models.ExportResult{
		Source:  path,
		Output:  out,
		Format:  f,
		Pages:   len(ext.PageMap()),
		Failure: ext.FailureReason(),
	}, nil
}

// Invalidate drops any cached extraction of path.
func (p *Processor) Invalidate(path string) {
	if p.cache != nil {
		p.cache.Invalidate(path)
	}
}

// Purge drops every cached extraction.
func (p *Processor) Purge() {
	if p.cache != nil {
		p.cache.Purge()
	}
}

// Matches reports whether a file name passes the directory's extension filter.
func (p *Processor) Matches(name string) bool {
	return p.scanner.Matches(name)
}
