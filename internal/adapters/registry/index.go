package registry

import (
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

type indexKey struct {
	kind     domain.Kind
	selector domain.Selector
}

// Index maps (kind, selector) to deduplicated definitions. It is never mutated
// after Build returns, so it can be shared between goroutines.
type Index struct {
	groups      map[indexKey][]*domain.Definition
	definitions []*domain.Definition
	namespaces  []string
}

// Build groups entries by kind and selector and merges entries that share a
// layout into one definition declared in several namespaces. For errors and
// functions the layout is the signature; events also compare which inputs are
// indexed, so one event signature can yield several definitions.
func Build(entries []domain.Entry) *Index {
	idx := &Index{groups: make(map[indexKey][]*domain.Definition)}
	namespaces := make(map[string]struct{})

	for _, e := range entries {
		namespaces[e.Namespace] = struct{}{}
		key := indexKey{kind: e.Kind, selector: e.Selector}

		layout := domain.NewDefinition(e).Layout()
		existing, found := lo.Find(idx.groups[key], func(d *domain.Definition) bool {
			return d.Layout() == layout
		})
		if !found {
			def := domain.NewDefinition(e)
			idx.groups[key] = append(idx.groups[key], def)
			idx.definitions = append(idx.definitions, def)
			continue
		}

		if !lo.Contains(existing.Namespaces, e.Namespace) {
			existing.Namespaces = append(existing.Namespaces, e.Namespace)
			sort.Strings(existing.Namespaces)
		}
		if existing.Docs.IsZero() {
			existing.Docs = e.Docs
		}
	}

	for _, group := range idx.groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Signature != group[j].Signature {
				return group[i].Signature < group[j].Signature
			}
			return group[i].Namespaces[0] < group[j].Namespaces[0]
		})
	}
	sort.SliceStable(idx.definitions, func(i, j int) bool {
		a, b := idx.definitions[i], idx.definitions[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Signature != b.Signature {
			return a.Signature < b.Signature
		}
		return a.Namespaces[0] < b.Namespaces[0]
	})

	idx.namespaces = lo.Keys(namespaces)
	sort.Strings(idx.namespaces)
	return idx
}

// Lookup returns the definitions registered for selector under kind
func (idx *Index) Lookup(kind domain.Kind, selector domain.Selector) domain.Lookup {
	result := domain.Lookup{Kind: kind, Selector: selector}
	group := idx.groups[indexKey{kind: kind, selector: selector}]

	switch len(group) {
	case 0:
		result.Status = domain.LookupUnknown
	case 1:
		result.Status = domain.LookupUnique
		result.Definition = group[0]
	default:
		result.Status = domain.LookupAmbiguous
		result.Candidates = append([]*domain.Definition(nil), group...)
	}
	return result
}

// Definitions returns every definition ordered by kind, name and signature
func (idx *Index) Definitions() []*domain.Definition {
	return append([]*domain.Definition(nil), idx.definitions...)
}

// Namespaces returns every namespace that declared at least one entry
func (idx *Index) Namespaces() []string {
	return append([]string(nil), idx.namespaces...)
}

// Ambiguous returns a lookup for every selector shared by distinct definitions
func (idx *Index) Ambiguous() []domain.Lookup {
	var out []domain.Lookup
	for key, group := range idx.groups {
		if len(group) > 1 {
			out = append(out, idx.Lookup(key.kind, key.selector))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Selector.Hex() < out[j].Selector.Hex()
	})
	return out
}

var _ usecase.SelectorIndex = (*Index)(nil)
