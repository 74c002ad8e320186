package abi

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// wordSize is the width of one ABI slot
const wordSize = 32

// tt256 is 2^256, the modulus of a signed word
var tt256 = new(big.Int).Lsh(common.Big1, 256)

// Tuple is a decoded tuple value. Names line up with Values and may be empty.
type Tuple struct {
	Names  []string
	Values []any
}

// MarshalJSON renders named tuples as objects and anonymous ones as arrays
func (t Tuple) MarshalJSON() ([]byte, error) {
	named := len(t.Names) == len(t.Values)
	for _, n := range t.Names {
		if n == "" {
			named = false
		}
	}
	if !named {
		return json.Marshal(jsonValues(t.Values))
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range t.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(n)
		v, err := json.Marshal(JSONValue(t.Values[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode reads one value of type t whose head slot starts at offset in buf.
// buf must be the enclosing tuple region: dynamic pointers are relative to buf[0].
// It returns the value and the number of head bytes consumed.
func Decode(buf []byte, offset int, t Type) (any, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, underrun(t, offset)
	}
	if t.IsDynamic() {
		ptr, err := readSize(buf, offset, t)
		if err != nil {
			return nil, 0, err
		}
		v, err := decodeTail(buf[ptr:], t, ptr)
		if err != nil {
			return nil, 0, err
		}
		return v, wordSize, nil
	}
	v, err := decodeStatic(buf, offset, t)
	if err != nil {
		return nil, 0, err
	}
	return v, t.HeadSize(), nil
}

// DecodeArgs decodes a sequence of values laid out as a tuple from data[0]
func DecodeArgs(data []byte, types []Type) ([]any, error) {
	return decodeTuple(data, types, 0)
}

// DecodeTopic decodes a static value stored in a single event topic
func DecodeTopic(topic common.Hash, t Type) (any, error) {
	if t.IsDynamic() || t.HeadSize() != wordSize {
		return nil, domain.DecodeError{Reason: domain.ReasonUnsupportedType, Type: t.String()}
	}
	return decodeStatic(topic.Bytes(), 0, t)
}

// IsHashedInTopic reports whether an indexed value of t is stored as its keccak256 hash
func IsHashedInTopic(t Type) bool {
	switch t.T {
	case BytesT, StringT, SliceT, ArrayT, TupleT:
		return true
	}
	return false
}

// base is the absolute offset of buf within the original payload, used for error reports
func decodeTuple(buf []byte, elems []Type, base int) ([]any, error) {
	out := make([]any, len(elems))
	head := 0
	for i, e := range elems {
		v, n, err := decodeAt(buf, head, e, base)
		if err != nil {
			return nil, err
		}
		out[i] = v
		head += n
	}
	return out, nil
}

func decodeAt(buf []byte, offset int, t Type, base int) (any, int, error) {
	v, n, err := Decode(buf, offset, t)
	if err != nil {
		return nil, 0, rebase(err, base)
	}
	return v, n, nil
}

func decodeTail(region []byte, t Type, base int) (any, error) {
	switch t.T {
	case BytesT, StringT:
		n, err := readSize(region, 0, t)
		if err != nil {
			return nil, rebase(err, base)
		}
		if n > len(region)-wordSize {
			return nil, underrun(t, base+wordSize)
		}
		data := region[wordSize : wordSize+n]
		if t.T == StringT {
			return string(data), nil
		}
		return common.CopyBytes(data), nil

	case SliceT:
		n, err := readSize(region, 0, t)
		if err != nil {
			return nil, rebase(err, base)
		}
		return decodeSequence(region[wordSize:], *t.Elem, n, base+wordSize)

	case ArrayT:
		return decodeSequence(region, *t.Elem, t.Size, base)

	case TupleT:
		values, err := decodeTuple(region, t.Elems, base)
		if err != nil {
			return nil, err
		}
		return Tuple{Names: t.Names, Values: values}, nil
	}
	return nil, domain.DecodeError{Reason: domain.ReasonUnsupportedType, Type: t.String()}
}

func decodeSequence(region []byte, elem Type, n int, base int) ([]any, error) {
	hs := elem.HeadSize()
	if n > len(region)/hs {
		return nil, underrun(elem, base+len(region))
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, _, err := decodeAt(region, i*hs, elem, base)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeStatic(buf []byte, offset int, t Type) (any, error) {
	if offset+t.HeadSize() > len(buf) {
		return nil, underrun(t, offset)
	}
	switch t.T {
	case ArrayT:
		return decodeSequence(buf[offset:], *t.Elem, t.Size, offset)
	case TupleT:
		values, err := decodeTuple(buf[offset:offset+t.HeadSize()], t.Elems, offset)
		if err != nil {
			return nil, err
		}
		return Tuple{Names: t.Names, Values: values}, nil
	}

	word := buf[offset : offset+wordSize]
	switch t.T {
	case AddressT:
		if !isZero(word[:12]) {
			return nil, invalid(t, offset, domain.ReasonDirtyPadding)
		}
		return common.BytesToAddress(word[12:]), nil

	case BoolT:
		if !isZero(word[:31]) || word[31] > 1 {
			return nil, invalid(t, offset, domain.ReasonInvalidBool)
		}
		return word[31] == 1, nil

	case UintT, IntT:
		return readInteger(t, word, offset)

	case FixedBytesT, FunctionT:
		if !isZero(word[t.Size:]) {
			return nil, invalid(t, offset, domain.ReasonDirtyPadding)
		}
		return common.CopyBytes(word[:t.Size]), nil
	}
	return nil, domain.DecodeError{Reason: domain.ReasonUnsupportedType, Type: t.String(), Offset: offset}
}

func readInteger(t Type, word []byte, offset int) (*big.Int, error) {
	v := new(big.Int).SetBytes(word)
	if t.T == UintT {
		if v.BitLen() > t.Size {
			return nil, invalid(t, offset, domain.ReasonIntegerRange)
		}
		return v, nil
	}

	if v.Bit(255) == 1 {
		v.Sub(v, tt256)
	}
	limit := new(big.Int).Lsh(common.Big1, uint(t.Size-1))
	if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
		return nil, invalid(t, offset, domain.ReasonIntegerRange)
	}
	return v, nil
}

// readSize reads a length or pointer word and bounds it by the buffer length
func readSize(buf []byte, offset int, t Type) (int, error) {
	if offset+wordSize > len(buf) {
		return 0, underrun(t, offset)
	}
	v := new(big.Int).SetBytes(buf[offset : offset+wordSize])
	if !v.IsUint64() {
		return 0, invalid(t, offset, domain.ReasonOffsetOverflow)
	}
	if v.Uint64() > uint64(len(buf)) {
		return 0, underrun(t, offset)
	}
	return int(v.Uint64()), nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func underrun(t Type, offset int) error {
	return invalid(t, offset, domain.ReasonBufferUnderrun)
}

func invalid(t Type, offset int, reason string) error {
	return domain.DecodeError{Reason: reason, Type: t.String(), Offset: offset}
}

// rebase shifts a nested error offset so it is relative to the whole payload
func rebase(err error, base int) error {
	if de, ok := err.(domain.DecodeError); ok && base != 0 {
		de.Offset += base
		return de
	}
	return err
}
