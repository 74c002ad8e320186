package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// VerifyRenderer renders the outcome of a registry integrity check
type VerifyRenderer struct {
	out  io.Writer
	json bool
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer, json bool) *VerifyRenderer {
	return &VerifyRenderer{out: out, json: json}
}

type verifyJSON struct {
	OK        bool           `json:"ok"`
	Checked   int            `json:"checked"`
	Issues    []domain.Issue `json:"issues"`
	Ambiguous []ambiguousSet `json:"ambiguous"`
}

type ambiguousSet struct {
	Kind       string   `json:"kind"`
	Selector   string   `json:"selector"`
	Signatures []string `json:"signatures"`
}

// Render lists every issue, then the legitimate selector collisions
func (r *VerifyRenderer) Render(result *usecase.VerifyRegistryResult) error {
	if r.json {
		out := verifyJSON{
			OK:        result.OK(),
			Checked:   result.Checked,
			Issues:    result.Issues,
			Ambiguous: make([]ambiguousSet, len(result.Ambiguous)),
		}
		if out.Issues == nil {
			out.Issues = []domain.Issue{}
		}
		for i, l := range result.Ambiguous {
			out.Ambiguous[i] = ambiguousSet{Kind: l.Kind.String(), Selector: l.Selector.Hex()}
			for _, c := range l.Candidates {
				out.Ambiguous[i].Signatures = append(out.Ambiguous[i].Signatures, c.Layout())
			}
		}
		return writeJSON(r.out, out)
	}

	for _, issue := range result.Issues {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s %s (%s): %s",
			issue.Kind, issue.Signature, strings.Join(issue.Namespaces, ", "), issue.Problem)))
	}

	for _, l := range result.Ambiguous {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s selector %s is shared by %d definitions", l.Kind, l.Selector.Hex(), len(l.Candidates))))
		for _, c := range l.Candidates {
			fmt.Fprintf(r.out, "    %s (%s)\n", c.Layout(), namespaceStyle.Sprint(strings.Join(c.Namespaces, ", ")))
		}
	}

	if result.OK() {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d definitions verified", result.Checked)))
		return nil
	}
	fmt.Fprintf(r.out, "\n%d of %d definitions have problems\n", countAffected(result.Issues), result.Checked)
	return nil
}

func countAffected(issues []domain.Issue) int {
	seen := make(map[string]bool)
	for _, issue := range issues {
		seen[issue.Kind.String()+issue.Signature] = true
	}
	return len(seen)
}
