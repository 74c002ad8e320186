package abi

import (
	"strconv"
	"strings"

	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// T enumerates the ABI type families the codec understands
type T uint8

const (
	AddressT T = iota + 1
	BoolT
	UintT
	IntT
	FixedBytesT
	FunctionT
	BytesT
	StringT
	SliceT
	ArrayT
	TupleT
)

// maxHeadSize bounds the inline size of static arrays
const maxHeadSize = 1<<31 - 1

// Type is a parsed ABI type descriptor
type Type struct {
	T     T
	Size  int // bits for integers, bytes for bytesN, length for T[k]
	Elem  *Type
	Elems []Type
	Names []string // tuple component names, may contain empty strings
}

// NewType parses an ABI type string. Tuple members come from components, or from
// an inline "(t1,t2)" spelling when components are absent.
func NewType(typ string, components []domain.Param) (Type, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return Type{}, unsupported(typ)
	}

	// Array suffixes bind from the right: uint256[2][] is a slice of uint256[2]
	if strings.HasSuffix(typ, "]") {
		open := strings.LastIndex(typ, "[")
		if open <= 0 {
			return Type{}, unsupported(typ)
		}
		elem, err := NewType(typ[:open], components)
		if err != nil {
			return Type{}, err
		}
		dim := typ[open+1 : len(typ)-1]
		if dim == "" {
			return Type{T: SliceT, Elem: &elem}, nil
		}
		n, err := strconv.Atoi(dim)
		if err != nil || n <= 0 || n > maxHeadSize/elem.HeadSize() {
			return Type{}, unsupported(typ)
		}
		return Type{T: ArrayT, Size: n, Elem: &elem}, nil
	}

	if typ == "tuple" {
		if len(components) == 0 {
			return Type{}, unsupported(typ)
		}
		t := Type{T: TupleT}
		for _, c := range components {
			ct, err := NewType(c.Type, c.Components)
			if err != nil {
				return Type{}, err
			}
			t.Elems = append(t.Elems, ct)
			t.Names = append(t.Names, c.Name)
		}
		return t, nil
	}

	if strings.HasPrefix(typ, "(") && strings.HasSuffix(typ, ")") {
		parts, ok := splitTopLevel(typ[1 : len(typ)-1])
		if !ok {
			return Type{}, unsupported(typ)
		}
		t := Type{T: TupleT}
		for _, p := range parts {
			ct, err := NewType(p, nil)
			if err != nil {
				return Type{}, err
			}
			t.Elems = append(t.Elems, ct)
			t.Names = append(t.Names, "")
		}
		return t, nil
	}

	return newElementary(typ)
}

func newElementary(typ string) (Type, error) {
	switch typ {
	case "address":
		return Type{T: AddressT, Size: 20}, nil
	case "bool":
		return Type{T: BoolT}, nil
	case "string":
		return Type{T: StringT}, nil
	case "bytes":
		return Type{T: BytesT}, nil
	case "function":
		return Type{T: FunctionT, Size: 24}, nil
	case "uint":
		return Type{T: UintT, Size: 256}, nil
	case "int":
		return Type{T: IntT, Size: 256}, nil
	}

	switch {
	case strings.HasPrefix(typ, "uint"):
		if n, ok := parseWidth(typ[4:], 8, 256, 8); ok {
			return Type{T: UintT, Size: n}, nil
		}
	case strings.HasPrefix(typ, "int"):
		if n, ok := parseWidth(typ[3:], 8, 256, 8); ok {
			return Type{T: IntT, Size: n}, nil
		}
	case strings.HasPrefix(typ, "bytes"):
		if n, ok := parseWidth(typ[5:], 1, 32, 1); ok {
			return Type{T: FixedBytesT, Size: n}, nil
		}
	}
	return Type{}, unsupported(typ)
}

func parseWidth(s string, min, max, step int) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max || n%step != 0 {
		return 0, false
	}
	return n, true
}

// splitTopLevel splits a comma separated list, ignoring commas nested in parentheses
func splitTopLevel(s string) ([]string, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
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
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, false
	}
	return append(parts, s[start:]), true
}

func unsupported(typ string) error {
	return domain.DecodeError{Reason: domain.ReasonUnsupportedType, Type: typ}
}

// String returns the canonical spelling used in signatures
func (t Type) String() string {
	switch t.T {
	case AddressT:
		return "address"
	case BoolT:
		return "bool"
	case UintT:
		return "uint" + strconv.Itoa(t.Size)
	case IntT:
		return "int" + strconv.Itoa(t.Size)
	case FixedBytesT:
		return "bytes" + strconv.Itoa(t.Size)
	case FunctionT:
		return "function"
	case BytesT:
		return "bytes"
	case StringT:
		return "string"
	case SliceT:
		return t.Elem.String() + "[]"
	case ArrayT:
		return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
	case TupleT:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "invalid"
}

// IsDynamic reports whether values of t are encoded behind a head pointer
func (t Type) IsDynamic() bool {
	switch t.T {
	case BytesT, StringT, SliceT:
		return true
	case ArrayT:
		return t.Elem.IsDynamic()
	case TupleT:
		for _, e := range t.Elems {
			if e.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// HeadSize is the number of bytes t occupies in the head of its enclosing tuple
func (t Type) HeadSize() int {
	if t.IsDynamic() {
		return 32
	}
	switch t.T {
	case ArrayT:
		return t.Size * t.Elem.HeadSize()
	case TupleT:
		total := 0
		for _, e := range t.Elems {
			total += e.HeadSize()
		}
		return total
	}
	return 32
}
