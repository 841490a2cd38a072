package search

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrInvalidPattern is matched by errors.Is when a pattern does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// ProcessPattern compiles pattern with default semantics (case-sensitive, not multiline).
// An empty pattern matches every page.
func ProcessPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

// MatchPages returns the ascending indices of pages whose text contains a match for re.
func MatchPages(re *regexp.Regexp, pages map[int]string) []int {
	var matched []int
	for idx, text := range pages {
		if re.MatchString(text) {
			matched = append(matched, idx)
		}
	}
	sort.Ints(matched)
	return matched
}
