package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Solidity panic codes raised by Panic(uint256)
var panicReasons = map[uint64]string{
	0x00: "generic compiler panic",
	0x01: "assertion failed",
	0x11: "arithmetic overflow or underflow",
	0x12: "division or modulo by zero",
	0x21: "invalid enum value",
	0x22: "corrupted storage byte array",
	0x31: "pop on empty array",
	0x32: "array index out of bounds",
	0x41: "out of memory",
	0x51: "call to zero-initialized function",
}

// PanicReason describes a Panic(uint256) code, or returns "" for unknown codes
func PanicReason(code *big.Int) string {
	if code == nil || !code.IsUint64() {
		return ""
	}
	return panicReasons[code.Uint64()]
}

// FormatValue formats a decoded value for human display.
// Addresses use checksum casing, byte strings are 0x hex, integers are decimal
// and sequences are bracketed lists of their formatted elements.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case *big.Int:
		if v == nil {
			return "0"
		}
		return v.String()
	case []byte:
		return hexutil.Encode(v)
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []any:
		return formatList(v)
	case Tuple:
		return formatList(v.Values)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatList(values []any) string {
	parts := make([]string, len(values))
	for i, e := range values {
		parts[i] = FormatValue(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// JSONValue converts a decoded value into a JSON friendly form.
// Integers become decimal strings so no precision is lost in consumers.
func JSONValue(value any) any {
	switch v := value.(type) {
	case common.Address:
		return v.Hex()
	case common.Hash:
		return v.Hex()
	case *big.Int:
		if v == nil {
			return nil
		}
		return v.String()
	case []byte:
		return hexutil.Encode(v)
	case []any:
		return jsonValues(v)
	default:
		return v
	}
}

func jsonValues(values []any) []any {
	out := make([]any, len(values))
	for i, e := range values {
		out[i] = JSONValue(e)
	}
	return out
}
