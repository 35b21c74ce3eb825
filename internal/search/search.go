// Package search finds nodes whose key or scalar value matches a query.
package search

import (
	"regexp"
	"strings"

	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/tree"
)

// Options controls how a query is matched.
type Options struct {
	CaseSensitive bool
	UseRegex      bool
}

type matcher func(text string) bool

// Search returns the indices of matching nodes in ascending index order,
// which is document order because the builder numbers nodes in pre-order.
//
// An empty query matches nothing. A regex that does not compile yields an
// empty result and a search error; the tree is never touched.
func Search(t *tree.Tree, query string, opts Options) ([]int, error) {
	if query == "" {
		return []int{}, nil
	}

	match, err := compile(query, opts)
	if err != nil {
		return []int{}, err
	}

	matches := []int{}
	for i := 0; i < t.Len(); i++ {
		n, _ := t.Get(i)
		if (n.HasKey && match(n.Key)) || (!n.IsContainer() && match(n.Value.Text())) {
			matches = append(matches, i)
		}
	}
	return matches, nil
}

func compile(query string, opts Options) (matcher, error) {
	if opts.UseRegex {
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.NewSearchError("Invalid regex: "+err.Error(), errors.ErrInvalidPattern)
		}
		return re.MatchString, nil
	}

	if opts.CaseSensitive {
		return func(text string) bool {
			return strings.Contains(text, query)
		}, nil
	}
	folded := strings.ToLower(query)
	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), folded)
	}, nil
}

// Results is an ordered match list with constant-time membership checks,
// used by renderers to highlight matching rows.
type Results struct {
	list []int
	set  map[int]struct{}
}

// NewResults wraps an ordered list of node indices.
func NewResults(matches []int) Results {
	set := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		set[m] = struct{}{}
	}
	return Results{list: matches, set: set}
}

// Len returns the number of matches.
func (r Results) Len() int { return len(r.list) }

// At returns the i-th match.
func (r Results) At(i int) int { return r.list[i] }

// Contains reports whether nodeIndex is a match.
func (r Results) Contains(nodeIndex int) bool {
	_, ok := r.set[nodeIndex]
	return ok
}

// Indices returns a copy of the ordered match list.
func (r Results) Indices() []int {
	out := make([]int, len(r.list))
	copy(out, r.list)
	return out
}
