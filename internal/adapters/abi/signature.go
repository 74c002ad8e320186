package abi

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// Signature builds the canonical Name(type1,type2,...) form of an entry
func Signature(name string, params []domain.Param) (string, error) {
	types, err := ParamTypes(params)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")", nil
}

// ParamTypes parses the declared types of params in order
func ParamTypes(params []domain.Param) ([]Type, error) {
	types := make([]Type, len(params))
	for i, p := range params {
		t, err := NewType(p.Type, p.Components)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// NormalizeSignature strips whitespace and rewrites every parameter type to its
// canonical spelling, so "Foo(uint, bytes32 )" becomes "Foo(uint256,bytes32)"
func NormalizeSignature(sig string) (string, error) {
	sig = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, sig)

	open := strings.Index(sig, "(")
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", fmt.Errorf("malformed signature %q", sig)
	}
	name := sig[:open]
	args := sig[open:]
	if args == "()" {
		return sig, nil
	}
	t, err := NewType(args, nil)
	if err != nil {
		return "", fmt.Errorf("malformed signature %q: %w", sig, err)
	}
	return name + t.String(), nil
}

// SelectorOf hashes a canonical signature and truncates it to the width of kind
func SelectorOf(kind domain.Kind, signature string) domain.Selector {
	hash := crypto.Keccak256([]byte(signature))
	sel, _ := domain.SelectorFromBytes(hash[:kind.SelectorSize()])
	return sel
}
