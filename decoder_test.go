package solabi

import (
	"bytes"
	"errors"
	"math/big"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestDecodeRoundTrip(t *testing.T) {
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")

	tests := []struct {
		name   string
		types  []Type
		values []Value
		want   []any
	}{
		{
			name:   "static scalars",
			types:  []Type{Uint256, IntType(32), BoolType, AddressType, Bytes4},
			values: []Value{Uint64(42), Int64(-10), Bool(true), Address(addr), Bytes([]byte{1, 2, 3, 4})},
			want:   []any{big.NewInt(42), big.NewInt(-10), true, addr, []byte{1, 2, 3, 4}},
		},
		{
			name:   "string and bytes",
			types:  []Type{StringType, BytesType},
			values: []Value{String("Not enough Ether provided."), Bytes([]byte{0xde, 0xad})},
			want:   []any{"Not enough Ether provided.", []byte{0xde, 0xad}},
		},
		{
			name:   "empty string and bytes",
			types:  []Type{StringType, BytesType},
			values: []Value{String(""), Bytes(nil)},
			want:   []any{"", []byte{}},
		},
		{
			name:  "nested string arrays",
			types: []Type{SliceType(SliceType(StringType))},
			values: []Value{Sequence(
				Sequence(String("a"), String("bc")),
				Sequence(),
			)},
			want: []any{[]any{[]any{"a", "bc"}, []any{}}},
		},
		{
			name:   "fixed array of static",
			types:  []Type{ArrayType(Uint8, 3), BoolType},
			values: []Value{Sequence(Uint64(1), Uint64(2), Uint64(3)), Bool(false)},
			want:   []any{[]any{big.NewInt(1), big.NewInt(2), big.NewInt(3)}, false},
		},
		{
			name:  "array of tuples",
			types: []Type{SliceType(TupleType(Component{"id", Uint256}, Component{"memo", StringType}))},
			values: []Value{Sequence(
				Tuple(Uint64(1), String("x")),
				Tuple(Uint64(2), String("yz")),
			)},
			want: []any{[]any{
				Values{"0": big.NewInt(1), "id": big.NewInt(1), "1": "x", "memo": "x"},
				Values{"0": big.NewInt(2), "id": big.NewInt(2), "1": "yz", "memo": "yz"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encode(tt.types, tt.values)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(tt.types, enc)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}

			strict, err := Decode(tt.types, enc, WithStrictDecoding())
			if err != nil {
				t.Fatalf("strict Decode() error = %v", err)
			}
			if !reflect.DeepEqual(strict, got) {
				t.Errorf("strict Decode() = %#v, want %#v", strict, got)
			}
		})
	}
}

func TestDecodeSubSlice(t *testing.T) {
	t.Run("each word decodes alone", func(t *testing.T) {
		types := []Type{Uint256, BoolType, AddressType}
		addr := common.HexToAddress("0xabcdef0123456789abcdef0123456789abcdef01")
		enc, err := Encode(types, []Value{Uint64(7), Bool(true), Address(addr)})
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		want := []any{big.NewInt(7), true, addr}
		for i, typ := range types {
			got, err := Decode([]Type{typ}, enc[i*WordSize:(i+1)*WordSize])
			if err != nil {
				t.Fatalf("Decode(word %d) error = %v", i, err)
			}
			if !reflect.DeepEqual(got[0], want[i]) {
				t.Errorf("word %d = %v, want %v", i, got[0], want[i])
			}
		}
	})

	t.Run("records decode from a larger buffer", func(t *testing.T) {
		types := []Type{Uint256, StringType}
		first, err := Encode(types, []Value{Uint64(1), String("first")})
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		second, err := Encode(types, []Value{Uint64(2), String("second record")})
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}

		buf := append(append([]byte{}, first...), second...)
		got, err := Decode(types, buf[len(first):])
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got[0].(*big.Int).Int64() != 2 || got[1] != "second record" {
			t.Errorf("Unexpected record %v", got)
		}
	})
}

func TestDecodeDoesNotAlias(t *testing.T) {
	enc, err := Encode([]Type{BytesType, Bytes4}, []Value{Bytes([]byte{1, 2, 3}), Bytes([]byte{4, 5, 6, 7})})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode([]Type{BytesType, Bytes4}, enc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for i := range enc {
		enc[i] = 0
	}
	if !bytes.Equal(got[0].([]byte), []byte{1, 2, 3}) || !bytes.Equal(got[1].([]byte), []byte{4, 5, 6, 7}) {
		t.Errorf("Decoded bytes should not share the input buffer, got %x %x", got[0], got[1])
	}
}

func padWord(hex string) []byte {
	return common.LeftPadBytes(common.FromHex(hex), WordSize)
}

func joinWords(words ...[]byte) []byte {
	var out []byte
	for _, w := range words {
		out = append(out, w...)
	}
	return out
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		types []Type
		data  []byte
		want  error
	}{
		{"short word", []Type{Uint256}, make([]byte, 31), ErrTruncated},
		{"missing second word", []Type{Uint256, BoolType}, padWord("01"), ErrTruncated},
		{"missing offset", []Type{StringType}, nil, ErrTruncated},
		{"offset past end", []Type{StringType}, padWord("1000"), ErrOffsetOutOfRange},
		{"offset beyond 64 bits", []Type{BytesType}, padWord("010000000000000000000000000000000000"), ErrOffsetOutOfRange},
		{"length past end", []Type{StringType}, joinWords(padWord("20"), padWord("40"), padWord("6869")), ErrTruncated},
		{"huge length", []Type{BytesType}, joinWords(padWord("20"), padWord("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")), ErrTruncated},
		{"huge array count", []Type{SliceType(Uint256)}, joinWords(padWord("20"), padWord("ffffffffff")), ErrTruncated},
		{"array count past elements", []Type{SliceType(Uint256)}, joinWords(padWord("20"), padWord("03"), padWord("01"), padWord("02")), ErrTruncated},
		{"fixed array short", []Type{ArrayType(Uint256, 3)}, joinWords(padWord("01"), padWord("02")), ErrTruncated},
		{"nested offset past end", []Type{SliceType(StringType)}, joinWords(padWord("20"), padWord("01"), padWord("ff")), ErrOffsetOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.types, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
			var decErr *DecodingError
			if !errors.As(err, &decErr) {
				t.Errorf("Expected *DecodingError, got %T", err)
			}
		})
	}
}

func TestDecodeStrictPadding(t *testing.T) {
	enc, err := Encode([]Type{StringType}, []Value{String("hi")})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// Dirty the padding after "hi".
	enc[len(enc)-1] = 0x01

	got, err := Decode([]Type{StringType}, enc)
	if err != nil {
		t.Fatalf("lenient Decode() error = %v", err)
	}
	if got[0] != "hi" {
		t.Errorf("Expected hi, got %v", got[0])
	}

	if _, err := Decode([]Type{StringType}, enc, WithStrictDecoding()); !errors.Is(err, ErrTypeShapeMismatch) {
		t.Errorf("Expected ErrTypeShapeMismatch, got %v", err)
	}

	unpadded := enc[:len(enc)-WordSize+2]
	if _, err := Decode([]Type{StringType}, unpadded); err != nil {
		t.Errorf("Expected lenient decode of unpadded tail, got %v", err)
	}
	if _, err := Decode([]Type{StringType}, unpadded, WithStrictDecoding()); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}

func TestDecodeParams(t *testing.T) {
	params := []Parameter{
		Param(" amount ", Uint256),
		Param("", BoolType),
		Param("memo", StringType),
	}
	enc, err := EncodeParams(params, []Value{Uint64(5), Bool(true), String("gm")})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}
	values, err := DecodeParams(params, enc)
	if err != nil {
		t.Fatalf("DecodeParams() error = %v", err)
	}

	if len(values) != 5 {
		t.Errorf("Expected 5 keys, got %d: %v", len(values), values)
	}
	if values["amount"].(*big.Int).Int64() != 5 || values["0"].(*big.Int).Int64() != 5 {
		t.Errorf("Expected amount under name and position, got %v", values)
	}
	if values.Index(1) != true {
		t.Errorf("Expected unnamed bool at position 1, got %v", values.Index(1))
	}
	if values["memo"] != "gm" {
		t.Errorf("Expected memo gm, got %v", values["memo"])
	}
	if values.Index(3) != nil {
		t.Errorf("Expected nil past the end, got %v", values.Index(3))
	}

	positional := values.Positional()
	if len(positional) != 3 || positional[2] != "gm" {
		t.Errorf("Unexpected positional members %v", positional)
	}
}

func TestDecodeParamsPositionWins(t *testing.T) {
	params := []Parameter{Param("1", Uint8), Param("", Uint8)}
	enc, err := EncodeParams(params, []Value{Uint64(10), Uint64(20)})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}
	values, err := DecodeParams(params, enc)
	if err != nil {
		t.Fatalf("DecodeParams() error = %v", err)
	}
	if values["1"].(*big.Int).Int64() != 20 {
		t.Errorf("Expected position 1 to hold 20, got %v", values["1"])
	}
}

// sharedNesting builds a uint256 array nested depth levels deep where every
// element of a level points at the same child.
func sharedNesting(depth, fanout int) []byte {
	count := padWord(strconv.FormatInt(int64(fanout), 16))
	if depth == 1 {
		words := [][]byte{count}
		for i := 0; i < fanout; i++ {
			words = append(words, padWord("07"))
		}
		return joinWords(words...)
	}
	words := [][]byte{count}
	for i := 0; i < fanout; i++ {
		words = append(words, padWord(strconv.FormatInt(int64(fanout*WordSize), 16)))
	}
	return append(joinWords(words...), sharedNesting(depth-1, fanout)...)
}

func TestDecodeOverlappingOffsets(t *testing.T) {
	typ := SliceType(SliceType(SliceType(SliceType(Uint256))))

	t.Run("shared tails are rejected", func(t *testing.T) {
		data := append(padWord("20"), sharedNesting(4, 200)...)

		start := time.Now()
		_, err := Decode([]Type{typ}, data)
		if !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("Expected ErrOffsetOutOfRange, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("Decode() took %s", elapsed)
		}
	})

	t.Run("shared strings are rejected", func(t *testing.T) {
		// Four offsets to one two-word string.
		data := joinWords(
			padWord("20"), padWord("04"),
			padWord("80"), padWord("80"), padWord("80"), padWord("80"),
			padWord("40"), padWord("01"), padWord("02"),
		)
		if _, err := Decode([]Type{SliceType(StringType)}, data); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("Expected ErrOffsetOutOfRange, got %v", err)
		}
	})

	t.Run("leaf array decodes", func(t *testing.T) {
		data := append(padWord("20"), sharedNesting(1, 3)...)
		got, err := Decode([]Type{SliceType(Uint256)}, data)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(got[0].([]any)) != 3 {
			t.Errorf("Expected 3 elements, got %v", got[0])
		}
	})

	t.Run("deep nesting without sharing", func(t *testing.T) {
		inner := Sequence(Uint64(1), Uint64(2))
		v := Sequence(Sequence(Sequence(inner, inner), Sequence(inner)))
		enc, err := Encode([]Type{typ}, []Value{v})
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if _, err := Decode([]Type{typ}, enc, WithStrictDecoding()); err != nil {
			t.Errorf("Decode() error = %v", err)
		}
	})
}

func TestDecodeInvalidTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
	}{
		{"zero type", Type{}},
		{"int without width", Type{Kind: IntKind}},
		{"bytes40", Type{Kind: FixedBytesKind, Size: 40}},
		{"array without element", Type{Kind: ArrayKind, Size: 2}},
		{"dynamic array of empty tuples", SliceType(TupleOf())},
		{"oversized array", ArrayType(Uint8, 1<<30)},
	}

	data := make([]byte, 4*WordSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]Type{tt.typ}, data); !errors.Is(err, ErrInvalidType) {
				t.Errorf("Decode() error = %v, want ErrInvalidType", err)
			}
			if _, err := Encode([]Type{tt.typ}, []Value{Uint64(0)}); !errors.Is(err, ErrInvalidType) {
				t.Errorf("Encode() error = %v, want ErrInvalidType", err)
			}
		})
	}
}
