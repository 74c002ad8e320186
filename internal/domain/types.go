package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind is the closed set of entry shapes a registry carries
type Kind int

const (
	KindError Kind = iota + 1
	KindEvent
	KindFunction
)

// Kinds lists every kind in display order
var Kinds = []Kind{KindError, KindEvent, KindFunction}

// ParseKind parses the registry "type" tag
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return KindError, nil
	case "event":
		return KindEvent, nil
	case "function":
		return KindFunction, nil
	}
	return 0, fmt.Errorf("unknown entry kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindEvent:
		return "event"
	case KindFunction:
		return "function"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// SelectorSize returns the selector width in bytes: 32 for events, 4 otherwise
func (k Kind) SelectorSize() int {
	if k == KindEvent {
		return 32
	}
	return 4
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Selector is a 4 or 32 byte identifier. It is comparable and usable as a map key.
type Selector struct {
	b    [32]byte
	size int
}

// SelectorFromBytes copies b into a selector. Only 4 and 32 byte inputs are valid.
func SelectorFromBytes(b []byte) (Selector, error) {
	if len(b) != 4 && len(b) != 32 {
		return Selector{}, fmt.Errorf("selector must be 4 or 32 bytes, got %d", len(b))
	}
	var s Selector
	copy(s.b[:], b)
	s.size = len(b)
	return s, nil
}

// ParseSelector parses a 0x-prefixed hex selector
func ParseSelector(s string) (Selector, error) {
	b, err := hexutil.Decode(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	return SelectorFromBytes(b)
}

// HashSelector returns the 32-byte selector of an event topic
func HashSelector(h common.Hash) Selector {
	s, _ := SelectorFromBytes(h.Bytes())
	return s
}

func (s Selector) Size() int      { return s.size }
func (s Selector) Bytes() []byte  { return append([]byte(nil), s.b[:s.size]...) }
func (s Selector) IsZero() bool   { return s.size == 0 }
func (s Selector) Hex() string    { return hexutil.Encode(s.b[:s.size]) }
func (s Selector) String() string { return s.Hex() }

func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *Selector) UnmarshalText(text []byte) error {
	parsed, err := ParseSelector(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Param describes one input or output of an entry
type Param struct {
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	InternalType string  `json:"internalType,omitempty" yaml:"internalType,omitempty"`
	Indexed      bool    `json:"indexed,omitempty" yaml:"indexed,omitempty"`
	Components   []Param `json:"components,omitempty" yaml:"components,omitempty"`
}

// Key is the name a decoded value is stored under: the param name, or argN
// for the i-th param when it is unnamed
func (p Param) Key(i int) string {
	if p.Name != "" {
		return p.Name
	}
	return "arg" + strconv.Itoa(i)
}

// Docs holds the natspec attached to an entry
type Docs struct {
	// Details is the developer-facing @dev text
	Details string `json:"details,omitempty"`
	// Params maps parameter names to their @param descriptions
	Params map[string]string `json:"params,omitempty"`
	// Notice is the user-facing @notice template; {name} placeholders refer to inputs
	Notice string `json:"notice,omitempty"`
}

// Template returns the text the message formatter renders
func (d Docs) Template() string {
	if d.Notice != "" {
		return d.Notice
	}
	return d.Details
}

// IsZero reports whether no documentation is present
func (d Docs) IsZero() bool {
	return d.Details == "" && d.Notice == "" && len(d.Params) == 0
}

// Entry is one error, event or function as declared on a single namespace
type Entry struct {
	Namespace string   `json:"namespace"`
	Kind      Kind     `json:"kind"`
	Selector  Selector `json:"selector"`
	Name      string   `json:"name"`
	Signature string   `json:"signature"`
	Inputs    []Param  `json:"inputs"`
	Outputs   []Param  `json:"outputs,omitempty"`
	Docs      Docs     `json:"docs"`
}

// Definition is an entry deduplicated across every namespace that declares it
type Definition struct {
	Kind       Kind     `json:"kind"`
	Selector   Selector `json:"selector"`
	Name       string   `json:"name"`
	Signature  string   `json:"signature"`
	Inputs     []Param  `json:"inputs"`
	Outputs    []Param  `json:"outputs,omitempty"`
	Docs       Docs     `json:"docs"`
	Namespaces []string `json:"namespaces"`
}

// DeclaredIn reports whether ns declared this definition
func (d *Definition) DeclaredIn(ns string) bool {
	i := sort.SearchStrings(d.Namespaces, ns)
	return i < len(d.Namespaces) && d.Namespaces[i] == ns
}

// NewDefinition seeds a definition from its first declaring entry
func NewDefinition(e Entry) *Definition {
	return &Definition{
		Kind:       e.Kind,
		Selector:   e.Selector,
		Name:       e.Name,
		Signature:  e.Signature,
		Inputs:     e.Inputs,
		Outputs:    e.Outputs,
		Docs:       e.Docs,
		Namespaces: []string{e.Namespace},
	}
}

// IndexedCount is the number of event inputs carried in topics 1..n
func (d *Definition) IndexedCount() int {
	n := 0
	for _, p := range d.Inputs {
		if p.Indexed {
			n++
		}
	}
	return n
}

// Layout is the signature with indexed event inputs marked, e.g.
// Transfer(address indexed,address indexed,uint256). Events that share a
// signature but index different inputs have different layouts.
func (d *Definition) Layout() string {
	if d.Kind != KindEvent || d.IndexedCount() == 0 {
		return d.Signature
	}
	open := strings.IndexByte(d.Signature, '(')
	if open < 0 {
		return d.Signature
	}
	types := splitTopLevel(d.Signature[open+1 : len(d.Signature)-1])
	if len(types) != len(d.Inputs) {
		return d.Signature
	}
	for i, p := range d.Inputs {
		if p.Indexed {
			types[i] += " indexed"
		}
	}
	return d.Signature[:open+1] + strings.Join(types, ",") + ")"
}

// splitTopLevel splits a parameter list on commas outside nested tuples
func splitTopLevel(s string) []string {
	if s == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// Hint narrows ambiguous lookups. Namespace wins over Contract when both are set.
type Hint struct {
	Namespace string
	Contract  *common.Address
}

// IsZero reports whether the hint carries no context
func (h Hint) IsZero() bool {
	return h.Namespace == "" && h.Contract == nil
}
