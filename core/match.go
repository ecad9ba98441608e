package shoko

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchPaths returns the paths that match a shell glob pattern, in input
// order.
//
// Patterns support "*", "?", "[...]", "{a,b}" and "**". A "*" never matches
// a slash, so "logs/*.log" matches "logs/a.log" but not "logs/old/b.log",
// and "*.md" matches only top-level files. A malformed pattern fails with
// ErrBadPattern.
func MatchPaths(pattern string, paths []string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}
	var matched []string
	for _, p := range paths {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Match returns the entry paths matching pattern, in index order.
// See MatchPaths for the pattern syntax.
func (a *Archive) Match(pattern string) ([]string, error) {
	return MatchPaths(pattern, a.Paths())
}
