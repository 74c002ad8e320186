package registry

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// definitionSource exposes definitions to fuzzy matching
type definitionSource []*domain.Definition

func (s definitionSource) String(i int) string {
	d := s[i]
	return d.Signature + " " + d.Selector.Hex() + " " + strings.Join(d.Namespaces, " ")
}

func (s definitionSource) Len() int { return len(s) }

// FuzzySearcher ranks definitions by fuzzy match on signature, selector and namespaces
type FuzzySearcher struct{}

// NewFuzzySearcher creates a new searcher
func NewFuzzySearcher() *FuzzySearcher {
	return &FuzzySearcher{}
}

// Search returns the matching definitions, best match first. A query that is
// a selector prefix matches exactly before fuzzy matching is tried.
func (s *FuzzySearcher) Search(query string, defs []*domain.Definition) []*domain.Definition {
	query = strings.TrimSpace(query)
	if query == "" {
		return defs
	}

	if strings.HasPrefix(strings.ToLower(query), "0x") {
		var hits []*domain.Definition
		for _, d := range defs {
			if strings.HasPrefix(d.Selector.Hex(), strings.ToLower(query)) {
				hits = append(hits, d)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}

	matches := fuzzy.FindFrom(query, definitionSource(defs))
	out := make([]*domain.Definition, len(matches))
	for i, m := range matches {
		out[i] = defs[m.Index]
	}
	return out
}

var _ usecase.EntrySearcher = (*FuzzySearcher)(nil)
