package message

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Annotation appends extra context to a rendered message of one signature
type Annotation func(values map[string]any) string

// Formatter renders notice templates with decoded values
type Formatter struct {
	annotations map[string]Annotation
}

// NewFormatter creates a formatter with the panic code annotation registered
func NewFormatter() *Formatter {
	return &Formatter{
		annotations: map[string]Annotation{
			"Panic(uint256)": annotatePanic,
		},
	}
}

// Format substitutes every {name} placeholder in the template of def. Without a
// template the definition renders as Name(value, ...).
func (f *Formatter) Format(def *domain.Definition, values map[string]any) (string, error) {
	tmpl := def.Docs.Template()
	if tmpl == "" {
		return f.annotate(def, values, fallback(def, values)), nil
	}

	for _, name := range Placeholders(tmpl) {
		if _, ok := values[name]; !ok {
			return "", domain.FormatError{Signature: def.Signature, Placeholder: name}
		}
	}

	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		name := token[1 : len(token)-1]
		return abi.FormatValue(values[name])
	})
	return f.annotate(def, values, out), nil
}

// Placeholders lists the distinct placeholder names of tmpl in order of appearance
func Placeholders(tmpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tmpl, -1)
	return lo.Uniq(lo.Map(matches, func(m []string, _ int) string {
		return m[1]
	}))
}

func (f *Formatter) annotate(def *domain.Definition, values map[string]any, msg string) string {
	annotation, ok := f.annotations[def.Signature]
	if !ok {
		return msg
	}
	if extra := annotation(values); extra != "" {
		return msg + " (" + extra + ")"
	}
	return msg
}

func fallback(def *domain.Definition, values map[string]any) string {
	parts := make([]string, 0, len(def.Inputs))
	for i, in := range def.Inputs {
		parts = append(parts, abi.FormatValue(values[in.Key(i)]))
	}
	return def.Name + "(" + strings.Join(parts, ", ") + ")"
}

func annotatePanic(values map[string]any) string {
	code, ok := values["code"].(*big.Int)
	if !ok {
		return ""
	}
	return abi.PanicReason(code)
}

var _ usecase.MessageFormatter = (*Formatter)(nil)
