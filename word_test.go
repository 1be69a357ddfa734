package solabi

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestEncodeWord(t *testing.T) {
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")

	tests := []struct {
		name  string
		typ   Type
		value Value
		want  string
	}{
		{"uint8 zero", Uint8, Uint64(0), strings.Repeat("00", 32)},
		{"uint256 one", Uint256, Uint64(1), strings.Repeat("00", 31) + "01"},
		{"int32 -10", IntType(32), Int64(-10), strings.Repeat("ff", 31) + "f6"},
		{"int8 -128", IntType(8), Int64(-128), strings.Repeat("ff", 31) + "80"},
		{"int256 max", Int256, Int(new(big.Int).Sub(new(big.Int).Lsh(big1, 255), big1)), "7f" + strings.Repeat("ff", 31)},
		{"int positive", IntType(16), Int64(300), strings.Repeat("00", 30) + "012c"},
		{"bool true", BoolType, Bool(true), strings.Repeat("00", 31) + "01"},
		{"bool false", BoolType, Bool(false), strings.Repeat("00", 32)},
		{"address", AddressType, Address(addr), strings.Repeat("00", 12) + "1234567890123456789012345678901234567890"},
		{"bytes4", Bytes4, Bytes([]byte{0xde, 0xad, 0xbe, 0xef}), "deadbeef" + strings.Repeat("00", 28)},
		{"bytes4 short", Bytes4, Bytes([]byte{0xab}), "ab" + strings.Repeat("00", 31)},
		{"function", FunctionType, Bytes(bytes.Repeat([]byte{0x11}, 24)), strings.Repeat("11", 24) + strings.Repeat("00", 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeWord(tt.typ, tt.value)
			if err != nil {
				t.Fatalf("encodeWord() error = %v", err)
			}
			if common.Bytes2Hex(got) != tt.want {
				t.Errorf("encodeWord() = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeWordErrors(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		value Value
		want  error
	}{
		{"negative for uint32", UintType(32), Int64(-10), ErrNegativeValueForUnsigned},
		{"uint8 overflow", Uint8, Uint64(256), ErrOverflow},
		{"uint256 overflow", Uint256, Uint(new(big.Int).Lsh(big1, 256)), ErrOverflow},
		{"int8 overflow", IntType(8), Int64(128), ErrOverflow},
		{"int8 underflow", IntType(8), Int64(-129), ErrOverflow},
		{"bytes4 too long", Bytes4, Bytes([]byte{1, 2, 3, 4, 5}), ErrDataTooLong},
		{"string for uint", Uint256, String("1"), ErrTypeValueMismatch},
		{"uint for bool", BoolType, Uint64(1), ErrTypeValueMismatch},
		{"bytes for address", AddressType, Bytes(make([]byte, 20)), ErrTypeValueMismatch},
		{"nil integer", Uint256, UintValue{}, ErrTypeValueMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeWord(tt.typ, tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("encodeWord() error = %v, want %v", err, tt.want)
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Errorf("Expected *EncodingError, got %T", err)
			}
		})
	}
}

func TestEncodeWordDoesNotMutate(t *testing.T) {
	n := big.NewInt(-10)
	if _, err := encodeWord(IntType(32), IntValue{Int: n}); err != nil {
		t.Fatalf("encodeWord() error = %v", err)
	}
	if n.Int64() != -10 {
		t.Errorf("Input mutated to %v", n)
	}
}

func TestDecodeWord(t *testing.T) {
	word := func(hex string) []byte { return common.FromHex(hex) }

	t.Run("int32 -10", func(t *testing.T) {
		got, err := decodeWord(IntType(32), word(strings.Repeat("ff", 31)+"f6"), false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		if got.(*big.Int).Int64() != -10 {
			t.Errorf("Expected -10, got %v", got)
		}
	})

	t.Run("int8 sign from window", func(t *testing.T) {
		// Only the low 8 bits count: 0x...0080 is -128, not 128.
		got, err := decodeWord(IntType(8), word(strings.Repeat("00", 31)+"80"), false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		if got.(*big.Int).Int64() != -128 {
			t.Errorf("Expected -128, got %v", got)
		}
	})

	t.Run("uint8 masks dirty bits", func(t *testing.T) {
		got, err := decodeWord(Uint8, word(strings.Repeat("ff", 32)), false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		if got.(*big.Int).Int64() != 255 {
			t.Errorf("Expected 255, got %v", got)
		}
	})

	t.Run("bool nonzero is true", func(t *testing.T) {
		got, err := decodeWord(BoolType, word("02"+strings.Repeat("00", 31)), false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		if got != true {
			t.Errorf("Expected true, got %v", got)
		}
	})

	t.Run("address", func(t *testing.T) {
		addr := common.HexToAddress("0x1234567890123456789012345678901234567890")
		got, err := decodeWord(AddressType, common.LeftPadBytes(addr[:], 32), false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		if got != addr {
			t.Errorf("Expected %s, got %v", addr.Hex(), got)
		}
	})

	t.Run("bytes4 copies", func(t *testing.T) {
		w := word("deadbeef" + strings.Repeat("00", 28))
		got, err := decodeWord(Bytes4, w, false)
		if err != nil {
			t.Fatalf("decodeWord() error = %v", err)
		}
		w[0] = 0
		if common.Bytes2Hex(got.([]byte)) != "deadbeef" {
			t.Errorf("Expected deadbeef, got %x", got)
		}
	})
}

func TestDecodeWordStrict(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		word string
	}{
		{"uint8 dirty", Uint8, strings.Repeat("00", 30) + "0100"},
		{"int8 not sign extended", IntType(8), strings.Repeat("00", 31) + "80"},
		{"bool two", BoolType, strings.Repeat("00", 31) + "02"},
		{"address dirty", AddressType, "01" + strings.Repeat("00", 31)},
		{"bytes4 dirty padding", Bytes4, "deadbeef" + strings.Repeat("00", 27) + "01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := common.FromHex(tt.word)
			if _, err := decodeWord(tt.typ, w, false); err != nil {
				t.Errorf("lenient decodeWord() error = %v", err)
			}
			if _, err := decodeWord(tt.typ, w, true); !errors.Is(err, ErrTypeShapeMismatch) {
				t.Errorf("strict decodeWord() error = %v, want ErrTypeShapeMismatch", err)
			}
		})
	}
}

func TestWordRoundTrip(t *testing.T) {
	values := []struct {
		typ   Type
		value Value
	}{
		{IntType(24), Int64(-8388608)},
		{IntType(24), Int64(8388607)},
		{Int256, Int64(-1)},
		{UintType(128), Uint64(1 << 63)},
	}

	for _, tt := range values {
		t.Run(tt.typ.String(), func(t *testing.T) {
			enc, err := encodeWord(tt.typ, tt.value)
			if err != nil {
				t.Fatalf("encodeWord() error = %v", err)
			}
			got, err := decodeWord(tt.typ, enc, true)
			if err != nil {
				t.Fatalf("decodeWord() error = %v", err)
			}
			want, _ := integerOf(tt.value)
			if got.(*big.Int).Cmp(want) != 0 {
				t.Errorf("Round trip = %v, want %v", got, want)
			}
		})
	}
}

func TestWordInvalidType(t *testing.T) {
	word := make([]byte, WordSize)
	word[0] = 0x80

	for _, typ := range []Type{{}, {Kind: IntKind}, {Kind: UintKind, Size: 300}, {Kind: FixedBytesKind, Size: 33}} {
		t.Run(typ.String(), func(t *testing.T) {
			if _, err := decodeWord(typ, word, false); !errors.Is(err, ErrInvalidType) {
				t.Errorf("decodeWord() error = %v, want ErrInvalidType", err)
			}
			if _, err := encodeWord(typ, Uint64(1)); !errors.Is(err, ErrInvalidType) {
				t.Errorf("encodeWord() error = %v, want ErrInvalidType", err)
			}
		})
	}
}
