package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	ambiguousStyle     = color.New(color.FgYellow)
)

// EntriesRenderer renders registry definitions grouped by kind
type EntriesRenderer struct {
	out  io.Writer
	json bool
}

// NewEntriesRenderer creates a new entries renderer
func NewEntriesRenderer(out io.Writer, json bool) *EntriesRenderer {
	return &EntriesRenderer{out: out, json: json}
}

// Render renders a registry listing with a per-kind summary
func (r *EntriesRenderer) Render(result *usecase.EntryListResult) error {
	if r.json {
		return writeJSON(r.out, result.Definitions)
	}

	if len(result.Definitions) == 0 {
		fmt.Fprintln(r.out, "No entries found")
		return nil
	}

	r.renderDefinitions(result.Definitions, countShared(result.Definitions))

	var parts []string
	for _, k := range domain.Kinds {
		if n := result.Summary.ByKind[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %ss", n, k))
		}
	}
	fmt.Fprintf(r.out, "\nTotal: %d (%s) across %d namespaces", result.Summary.Total, strings.Join(parts, ", "), len(result.Namespaces))
	if result.Summary.Ambiguous > 0 {
		fmt.Fprint(r.out, ambiguousStyle.Sprintf(", %d ambiguous selectors", result.Summary.Ambiguous))
	}
	fmt.Fprintln(r.out)
	return nil
}

// RenderSearch renders search matches in rank order
func (r *EntriesRenderer) RenderSearch(defs []*domain.Definition) error {
	if r.json {
		return writeJSON(r.out, defs)
	}
	if len(defs) == 0 {
		fmt.Fprintln(r.out, "No matching entries")
		return nil
	}
	fmt.Fprintln(r.out, definitionsTable(defs, countShared(defs)))
	return nil
}

func (r *EntriesRenderer) renderDefinitions(defs []*domain.Definition, shared map[domain.Kind]map[domain.Selector]int) {
	for _, k := range domain.Kinds {
		var group []*domain.Definition
		for _, d := range defs {
			if d.Kind == k {
				group = append(group, d)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint(titleCase.String(k.String())+"s"))
		fmt.Fprintln(r.out, definitionsTable(group, shared))
		fmt.Fprintln(r.out)
	}
}

// countShared counts definitions per selector so collisions can be flagged
func countShared(defs []*domain.Definition) map[domain.Kind]map[domain.Selector]int {
	shared := make(map[domain.Kind]map[domain.Selector]int)
	for _, d := range defs {
		if shared[d.Kind] == nil {
			shared[d.Kind] = make(map[domain.Selector]int)
		}
		shared[d.Kind][d.Selector]++
	}
	return shared
}

func definitionsTable(defs []*domain.Definition, shared map[domain.Kind]map[domain.Selector]int) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}

	for _, d := range defs {
		sel := shortSelector(d.Selector)
		if shared[d.Kind][d.Selector] > 1 {
			sel = ambiguousStyle.Sprint(sel + " *")
		} else {
			sel = selectorStyle.Sprint(sel)
		}
		t.AppendRow(table.Row{sel, signatureStyle.Sprint(d.Signature), namespaceStyle.Sprint(strings.Join(d.Namespaces, ", "))})
	}
	return t.Render()
}

// shortSelector abbreviates 32-byte event topics
func shortSelector(s domain.Selector) string {
	h := s.Hex()
	if s.Size() == 32 {
		return h[:10] + "…" + h[len(h)-4:]
	}
	return h
}
