package abi

import (
	"encoding/json"
	"math/big"
	"testing"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

func mustEthType(t *testing.T, typ string) ethabi.Type {
	t.Helper()
	et, err := ethabi.NewType(typ, "", nil)
	require.NoError(t, err)
	return et
}

func pack(t *testing.T, types []string, values ...any) []byte {
	t.Helper()
	args := make(ethabi.Arguments, len(types))
	for i, typ := range types {
		args[i] = ethabi.Argument{Type: mustEthType(t, typ)}
	}
	data, err := args.Pack(values...)
	require.NoError(t, err)
	return data
}

func mustTypes(t *testing.T, types ...string) []Type {
	t.Helper()
	out := make([]Type, len(types))
	for i, typ := range types {
		parsed, err := NewType(typ, nil)
		require.NoError(t, err)
		out[i] = parsed
	}
	return out
}

func TestDecodeArgs_RoundTrip(t *testing.T) {
	guardian := common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	key := common.HexToHash("0x4b80742de2bf82acb3630000a4b2e3b5e8c8e1e5b0f5f5f5f5f5f5f5f5f5f5f5")

	tests := []struct {
		name   string
		types  []string
		values []any
		want   []any
	}{
		{
			name:   "address",
			types:  []string{"address"},
			values: []any{guardian},
			want:   []any{guardian},
		},
		{
			name:   "uint256 and bool",
			types:  []string{"uint256", "bool"},
			values: []any{big.NewInt(1000), true},
			want:   []any{big.NewInt(1000), true},
		},
		{
			name:   "negative int",
			types:  []string{"int128"},
			values: []any{big.NewInt(-42)},
			want:   []any{big.NewInt(-42)},
		},
		{
			name:   "bytes32 and bytes",
			types:  []string{"bytes32", "bytes"},
			values: []any{[32]byte(key), []byte{0xde, 0xad, 0xbe, 0xef}},
			want:   []any{key.Bytes(), []byte{0xde, 0xad, 0xbe, 0xef}},
		},
		{
			name:   "string after static values",
			types:  []string{"address", "string"},
			values: []any{guardian, "SETDATA"},
			want:   []any{guardian, "SETDATA"},
		},
		{
			name:   "empty bytes",
			types:  []string{"bytes"},
			values: []any{[]byte{}},
			want:   []any{[]byte{}},
		},
		{
			name:   "dynamic arrays",
			types:  []string{"bytes32[]", "bytes[]"},
			values: []any{[][32]byte{key, key}, [][]byte{{0x01}, {0x02, 0x03}}},
			want:   []any{[]any{key.Bytes(), key.Bytes()}, []any{[]byte{0x01}, []byte{0x02, 0x03}}},
		},
		{
			name:   "static array",
			types:  []string{"uint256[2]", "uint8"},
			values: []any{[2]*big.Int{big.NewInt(1), big.NewInt(2)}, uint8(7)},
			want:   []any{[]any{big.NewInt(1), big.NewInt(2)}, big.NewInt(7)},
		},
		{
			name:   "bytes4",
			types:  []string{"address", "address", "bytes4"},
			values: []any{guardian, guardian, [4]byte{0x44, 0xc0, 0x28, 0xfe}},
			want:   []any{guardian, guardian, []byte{0x44, 0xc0, 0x28, 0xfe}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pack(t, tt.types, tt.values...)
			got, err := DecodeArgs(data, mustTypes(t, tt.types...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeArgs_Tuple(t *testing.T) {
	typ, err := NewType("tuple", []domain.Param{
		{Name: "id", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	})
	require.NoError(t, err)
	assert.True(t, typ.IsDynamic())

	// head: pointer to tuple; tuple: id, pointer to data, data length, data
	data := common.FromHex("0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000005" +
		"0000000000000000000000000000000000000000000000000000000000000040" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"abcd000000000000000000000000000000000000000000000000000000000000")

	got, err := DecodeArgs(data, []Type{typ})
	require.NoError(t, err)
	require.Len(t, got, 1)

	tuple, ok := got[0].(Tuple)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "data"}, tuple.Names)
	assert.Equal(t, []any{big.NewInt(5), []byte{0xab, 0xcd}}, tuple.Values)
	assert.Equal(t, "[5, 0xabcd]", FormatValue(tuple))

	out, err := json.Marshal(tuple)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"5","data":"0xabcd"}`, string(out))
}

func TestDecodeArgs_Malformed(t *testing.T) {
	word := func(hex string) string {
		for len(hex) < 64 {
			hex = "0" + hex
		}
		return hex
	}

	tests := []struct {
		name   string
		types  []string
		data   string
		reason string
	}{
		{
			name:   "empty buffer for address",
			types:  []string{"address"},
			data:   "",
			reason: domain.ReasonBufferUnderrun,
		},
		{
			name:   "truncated word",
			types:  []string{"uint256"},
			data:   "00000001",
			reason: domain.ReasonBufferUnderrun,
		},
		{
			name:   "bytes length exceeds buffer",
			types:  []string{"bytes"},
			data:   word("20") + word("40") + word("01"),
			reason: domain.ReasonBufferUnderrun,
		},
		{
			name:   "pointer past end",
			types:  []string{"string"},
			data:   word("ff"),
			reason: domain.ReasonBufferUnderrun,
		},
		{
			name:   "huge pointer",
			types:  []string{"bytes"},
			data:   "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			reason: domain.ReasonOffsetOverflow,
		},
		{
			name:   "array count exceeds buffer",
			types:  []string{"uint256[]"},
			data:   word("20") + word("1000"),
			reason: domain.ReasonBufferUnderrun,
		},
		{
			name:   "invalid bool",
			types:  []string{"bool"},
			data:   word("02"),
			reason: domain.ReasonInvalidBool,
		},
		{
			name:   "dirty address padding",
			types:  []string{"address"},
			data:   "ff" + word("aaaa")[2:],
			reason: domain.ReasonDirtyPadding,
		},
		{
			name:   "uint8 out of range",
			types:  []string{"uint8"},
			data:   word("100"),
			reason: domain.ReasonIntegerRange,
		},
		{
			name:   "int8 out of range",
			types:  []string{"int8"},
			data:   word("80"),
			reason: domain.ReasonIntegerRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeArgs(common.FromHex("0x"+tt.data), mustTypes(t, tt.types...))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedPayload)

			var de domain.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.reason, de.Reason)
		})
	}
}

func TestDecodeArgs_NegativeSmallInt(t *testing.T) {
	data := common.FromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff80")
	got, err := DecodeArgs(data, mustTypes(t, "int8"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(-128), got[0])
}

func TestDecodeArgs_SignedIntegers(t *testing.T) {
	minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	maxInt256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))

	tests := []struct {
		typ   string
		value *big.Int
	}{
		{typ: "int256", value: big.NewInt(-1)},
		{typ: "int256", value: minInt256},
		{typ: "int256", value: maxInt256},
		{typ: "int16", value: big.NewInt(-32768)},
		{typ: "int16", value: big.NewInt(32767)},
		{typ: "int64", value: big.NewInt(-42)},
	}

	for _, tt := range tests {
		t.Run(tt.typ+" "+tt.value.String(), func(t *testing.T) {
			var packed any = tt.value
			switch tt.typ {
			case "int16":
				packed = int16(tt.value.Int64())
			case "int64":
				packed = tt.value.Int64()
			}
			data := pack(t, []string{tt.typ}, packed)

			got, err := DecodeArgs(data, mustTypes(t, tt.typ))
			require.NoError(t, err)
			assert.Equal(t, 0, tt.value.Cmp(got[0].(*big.Int)), "got %s", got[0])
		})
	}

	t.Run("sign extension beyond declared width", func(t *testing.T) {
		// -256 does not fit an int8
		data := common.FromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff00")
		_, err := DecodeArgs(data, mustTypes(t, "int8"))
		var de domain.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.ReasonIntegerRange, de.Reason)
	})
}

func TestDecodeTopic(t *testing.T) {
	addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	got, err := DecodeTopic(common.BytesToHash(addr.Bytes()), mustTypes(t, "address")[0])
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	got, err = DecodeTopic(common.BigToHash(big.NewInt(9)), mustTypes(t, "uint256")[0])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(9), got)

	_, err = DecodeTopic(common.Hash{}, mustTypes(t, "bytes")[0])
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)

	assert.True(t, IsHashedInTopic(mustTypes(t, "string")[0]))
	assert.True(t, IsHashedInTopic(mustTypes(t, "uint256[2]")[0]))
	assert.False(t, IsHashedInTopic(mustTypes(t, "bytes32")[0]))
}
