package registry

import (
	"github.com/trebuchet-org/lspdecode/internal/adapters/abi"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// SolidityNamespace holds the errors the compiler emits on its own
const SolidityNamespace = "Solidity"

// Builtins returns Error(string) and Panic(uint256)
func Builtins() []domain.Entry {
	return []domain.Entry{
		builtin("Error", domain.Param{Name: "reason", Type: "string"}, domain.Docs{
			Notice:  "{reason}",
			Details: "Raised by require(...) and revert(...) with a reason string.",
			Params:  map[string]string{"reason": "The revert reason."},
		}),
		builtin("Panic", domain.Param{Name: "code", Type: "uint256"}, domain.Docs{
			Notice:  "panic code {code}",
			Details: "Raised by failing assertions, arithmetic errors and out of bounds access.",
			Params:  map[string]string{"code": "The panic code."},
		}),
	}
}

func builtin(name string, param domain.Param, docs domain.Docs) domain.Entry {
	inputs := []domain.Param{param}
	sig, _ := abi.Signature(name, inputs)
	return domain.Entry{
		Namespace: SolidityNamespace,
		Kind:      domain.KindError,
		Selector:  abi.SelectorOf(domain.KindError, sig),
		Name:      name,
		Signature: sig,
		Inputs:    inputs,
		Docs:      docs,
	}
}
