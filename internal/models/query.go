package models

import (
	"fmt"
	"strings"
)

// SearchQuery represents a search request against the configured directory.
type SearchQuery struct {
	Pattern string `json:"pattern"`
}

// Validate ensures the query has a pattern. The pattern itself is compiled by the engine.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Pattern) == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	return nil
}

// ExportRequest is the body of an export request.
type ExportRequest struct {
	Format string `json:"format"`
}
