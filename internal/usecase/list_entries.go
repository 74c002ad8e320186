package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// ListEntriesParams contains parameters for listing registry definitions
type ListEntriesParams struct {
	Kind      domain.Kind // zero lists every kind
	Namespace string
	Ambiguous bool // only selectors shared by distinct signatures
}

// EntryListResult contains the result of listing definitions
type EntryListResult struct {
	Definitions []*domain.Definition
	Namespaces  []string
	Summary     EntrySummary
}

// EntrySummary counts definitions per kind
type EntrySummary struct {
	Total     int
	ByKind    map[domain.Kind]int
	Ambiguous int
}

// ListEntries is the use case for listing registry definitions
type ListEntries struct {
	source IndexSource
	sink   ProgressSink
}

// NewListEntries creates a new ListEntries use case
func NewListEntries(source IndexSource, sink ProgressSink) *ListEntries {
	return &ListEntries{
		source: source,
		sink:   sink,
	}
}

// Run executes the list entries use case
func (uc *ListEntries) Run(ctx context.Context, params ListEntriesParams) (*EntryListResult, error) {
	idx := uc.source.Snapshot()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Reading registry index",
	})

	var defs []*domain.Definition
	if params.Ambiguous {
		for _, l := range idx.Ambiguous() {
			defs = append(defs, l.Candidates...)
		}
	} else {
		defs = idx.Definitions()
	}

	defs = lo.Filter(defs, func(d *domain.Definition, _ int) bool {
		if params.Kind != 0 && d.Kind != params.Kind {
			return false
		}
		return params.Namespace == "" || d.DeclaredIn(params.Namespace)
	})
	sortDefinitions(defs)

	return &EntryListResult{
		Definitions: defs,
		Namespaces:  idx.Namespaces(),
		Summary:     summarize(defs, idx),
	}, nil
}

// sortDefinitions sorts definitions by kind, name and signature
func sortDefinitions(defs []*domain.Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Kind != defs[j].Kind {
			return defs[i].Kind < defs[j].Kind
		}
		if defs[i].Name != defs[j].Name {
			return defs[i].Name < defs[j].Name
		}
		return defs[i].Signature < defs[j].Signature
	})
}

func summarize(defs []*domain.Definition, idx SelectorIndex) EntrySummary {
	summary := EntrySummary{
		Total:     len(defs),
		ByKind:    lo.CountValuesBy(defs, func(d *domain.Definition) domain.Kind { return d.Kind }),
		Ambiguous: len(idx.Ambiguous()),
	}
	return summary
}
