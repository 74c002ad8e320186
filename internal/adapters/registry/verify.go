package registry

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/adapters/message"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// Verifier checks that every definition hashes to its selector and that its
// declared params and templates agree with its signature
type Verifier struct{}

// NewVerifier creates a new registry verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify returns one issue per problem found, in definition order
func (v *Verifier) Verify(defs []*domain.Definition) []domain.Issue {
	var issues []domain.Issue
	for _, def := range defs {
		report := func(format string, args ...any) {
			issues = append(issues, domain.Issue{
				Signature:  def.Signature,
				Kind:       def.Kind,
				Selector:   def.Selector,
				Namespaces: def.Namespaces,
				Problem:    fmt.Sprintf(format, args...),
			})
		}

		if want := abi.SelectorOf(def.Kind, def.Signature); want != def.Selector {
			report("selector %s does not match keccak256 of signature (%s)", def.Selector.Hex(), want.Hex())
		}

		computed, err := abi.Signature(def.Name, def.Inputs)
		if err != nil {
			report("inputs cannot be decoded: %v", err)
		} else if computed != def.Signature {
			report("signature does not match inputs %s", computed)
		}

		if _, err := abi.ParamTypes(def.Outputs); err != nil {
			report("outputs cannot be decoded: %v", err)
		}

		if def.Kind != domain.KindEvent {
			if indexed := lo.Filter(def.Inputs, func(p domain.Param, _ int) bool { return p.Indexed }); len(indexed) > 0 {
				report("%s declares indexed inputs", def.Kind)
			}
		} else if n := lo.CountBy(def.Inputs, func(p domain.Param) bool { return p.Indexed }); n > 3 {
			report("event has %d indexed inputs, at most 3 fit in topics", n)
		}

		keys := make(map[string]struct{}, len(def.Inputs))
		for i, in := range def.Inputs {
			keys[in.Key(i)] = struct{}{}
		}
		for _, name := range message.Placeholders(def.Docs.Template()) {
			if _, ok := keys[name]; !ok {
				report("template references unknown placeholder {%s}", name)
			}
		}
	}
	return issues
}

var _ usecase.RegistryVerifier = (*Verifier)(nil)
