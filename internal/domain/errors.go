package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for decoding operations
var (
	// ErrUnknownSelector is matched by UnknownSelectorError
	ErrUnknownSelector = errors.New("unknown selector")

	// ErrAmbiguousSelector is matched by AmbiguousSelectorError
	ErrAmbiguousSelector = errors.New("ambiguous selector")

	// ErrMalformedPayload is matched by DecodeError
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrInvalidTemplate is matched by FormatError
	ErrInvalidTemplate = errors.New("invalid message template")
)

// Decode failure reasons
const (
	ReasonBufferUnderrun  = "buffer underrun"
	ReasonUnsupportedType = "unsupported type"
	ReasonInvalidBool     = "invalid boolean"
	ReasonIntegerRange    = "integer out of range"
	ReasonDirtyPadding    = "non-zero padding"
	ReasonOffsetOverflow  = "offset overflow"
	ReasonMissingTopic    = "missing topic"
	ReasonExtraTopics     = "unexpected topics"
)

type UnknownSelectorError struct {
	Kind     Kind
	Selector Selector
}

func (e UnknownSelectorError) Error() string {
	return fmt.Sprintf("no %s registered for selector %s", e.Kind, e.Selector.Hex())
}

func (e UnknownSelectorError) Is(target error) bool {
	return target == ErrUnknownSelector
}

type AmbiguousSelectorError struct {
	Kind       Kind
	Selector   Selector
	Namespace  string // hint that failed to narrow the candidates, if any
	Candidates []*Definition
}

func (e AmbiguousSelectorError) Error() string {
	sorted := make([]*Definition, len(e.Candidates))
	copy(sorted, e.Candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Layout() < sorted[j].Layout()
	})

	var suggestions []string
	for _, c := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s (%s)", c.Layout(), strings.Join(c.Namespaces, ", ")))
	}

	var hint string
	if e.Namespace != "" {
		hint = fmt.Sprintf(" and namespace %q does not resolve it", e.Namespace)
	}
	return fmt.Sprintf("multiple %ss match selector %s%s - pass a namespace to disambiguate:\n%s",
		e.Kind, e.Selector.Hex(), hint, strings.Join(suggestions, "\n"))
}

func (e AmbiguousSelectorError) Is(target error) bool {
	return target == ErrAmbiguousSelector
}

// DecodeError reports a malformed payload or an unsupported type
type DecodeError struct {
	Reason string
	Type   string // ABI type being decoded, when known
	Param  string // parameter name, filled in by the decoder
	Offset int
}

func (e DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Param != "" {
		fmt.Fprintf(&b, " %s", e.Param)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " (%s)", e.Type)
	}
	if e.Offset > 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

func (e DecodeError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// FormatError reports a template placeholder with no matching value
type FormatError struct {
	Signature   string
	Placeholder string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("template of %s references unknown placeholder {%s}", e.Signature, e.Placeholder)
}

func (e FormatError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// Issue is a registry consistency problem found by verification
type Issue struct {
	Signature  string   `json:"signature"`
	Kind       Kind     `json:"kind"`
	Selector   Selector `json:"selector"`
	Namespaces []string `json:"namespaces"`
	Problem    string   `json:"problem"`
}
