// Package cache provides an LRU cache of document extractions for long-running modes.
package cache

import (
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hyperjump/pdfsift/internal/models"
	"go.uber.org/zap"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 128

// Extractor is the wrapped extraction capability.
type Extractor interface {
	Extract(path string) *models.Extraction
}

type entry struct {
	modTime    time.Time
	size       int64
	extraction *models.Extraction
}

// ExtractionCache memoizes successful extractions keyed by cleaned path.
// An entry is reused only while the file's modification time and size are unchanged.
type ExtractionCache struct {
	next    Extractor
	entries *lru.Cache[string, entry]
	logger  *zap.Logger
}

// Option configures an ExtractionCache.
type Option func(*ExtractionCache)

// WithLogger sets a logger for debug output (hits, misses, invalidations).
func WithLogger(l *zap.Logger) Option {
	return func(c *ExtractionCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New wraps next with an LRU cache holding at most size documents.
func New(next Extractor, size int, opts ...Option) (*ExtractionCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	c := &ExtractionCache{next: next, entries: entries, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Extract returns the cached extraction for path when the file is unchanged,
// otherwise extracts it again. Failed extractions are never cached.
func (c *ExtractionCache) Extract(path string) *models.Extraction {
	key := filepath.Clean(path)
	info, statErr := os.Stat(key)
	if statErr == nil {
		if e, ok := c.entries.Get(key); ok {
			if e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
				c.logger.Debug("extraction cache hit", zap.String("path", key))
				return e.extraction
			}
			c.entries.Remove(key)
		}
	}

	ext := c.next.Extract(path)
	if ext.Failed() || statErr != nil {
		return ext
	}
	c.entries.Add(key, entry{modTime: info.ModTime(), size: info.Size(), extraction: ext})
	return ext
}

// Invalidate drops the entry for path, if any.
func (c *ExtractionCache) Invalidate(path string) {
	if c.entries.Remove(filepath.Clean(path)) {
		c.logger.Debug("extraction cache invalidated", zap.String("path", path))
	}
}

// Purge drops every entry.
func (c *ExtractionCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached documents.
func (c *ExtractionCache) Len() int {
	return c.entries.Len()
}
