// Package search provides the directory-wide regular expression search engine.
package search

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/pdfsift/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Lister lists the document names of the searched directory.
type Lister interface {
	List() ([]string, error)
	Path(name string) string
}

// Extractor extracts one document. Failures are reported in the result, never returned.
type Extractor interface {
	Extract(path string) *models.Extraction
}

// Engine runs a fresh linear scan over every listed document on each search.
type Engine struct {
	lister    Lister
	extractor Extractor
	workers   int
	logger    *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers sets how many documents are extracted concurrently. Values below 2 scan sequentially.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(lister Lister, extractor Extractor, opts ...EngineOption) *Engine {
	e := &Engine{
		lister:    lister,
		extractor: extractor,
		workers:   1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type fileOutcome struct {
	pages   []int
	failed  bool
	failure string
}

// Search compiles pattern and tests it against every page of every listed document.
// Matches are reported in listing order with ascending page indices. Documents that
// fail to extract are reported in Failures and never abort the scan.
func (e *Engine) Search(ctx context.Context, pattern string) (*models.SearchReport, error) {
	startTime := time.Now()
	re, err := ProcessPattern(pattern)
	if err != nil {
		return nil, err
	}
	files, err := e.lister.List()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	// Each file owns one slot, so completion order cannot affect the report.
	outcomes := make([]fileOutcome, len(files))
	if e.workers <= 1 {
		for i, name := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = e.scanFile(re, name)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i, name := range files {
			i, name := i, name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = e.scanFile(re, name)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	report := &models.SearchReport{
		ID:      uuid.NewString(),
		Pattern: pattern,
		Matches: []models.FileMatch{},
		Files:   len(files),
	}
	for i, name := range files {
		outcome := outcomes[i]
		if outcome.failed {
			report.Failures = append(report.Failures, models.FileFailure{File: name, Reason: outcome.failure})
			continue
		}
		if len(outcome.pages) > 0 {
			report.Matches = append(report.Matches, models.FileMatch{File: name, Pages: outcome.pages})
		}
	}
	report.QueryTime = time.Since(startTime).Milliseconds()

	e.logger.Debug("search completed",
		zap.String("id", report.ID),
		zap.String("pattern", pattern),
		zap.Int("files", report.Files),
		zap.Int("matched_files", len(report.Matches)),
		zap.Int("failed_files", len(report.Failures)),
	)
	return report, nil
}

func (e *Engine) scanFile(re *regexp.Regexp, name string) fileOutcome {
	extraction := e.extractor.Extract(e.lister.Path(name))
	if extraction.Failed() {
		return fileOutcome{failed: true, failure: extraction.FailureReason()}
	}
	return fileOutcome{pages: MatchPages(re, extraction.PageMap())}
}
