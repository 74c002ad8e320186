package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// SearchEntriesParams contains parameters for searching definitions
type SearchEntriesParams struct {
	Query string
	Kind  domain.Kind
	Limit int
}

// SearchEntries ranks registry definitions against a free text query
type SearchEntries struct {
	source   IndexSource
	searcher EntrySearcher
}

// NewSearchEntries creates a new SearchEntries use case
func NewSearchEntries(source IndexSource, searcher EntrySearcher) *SearchEntries {
	return &SearchEntries{
		source:   source,
		searcher: searcher,
	}
}

// Run returns matching definitions, best match first
func (uc *SearchEntries) Run(ctx context.Context, params SearchEntriesParams) ([]*domain.Definition, error) {
	defs := uc.source.Snapshot().Definitions()
	if params.Kind != 0 {
		defs = lo.Filter(defs, func(d *domain.Definition, _ int) bool {
			return d.Kind == params.Kind
		})
	}

	matches := uc.searcher.Search(params.Query, defs)
	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	return matches, nil
}
