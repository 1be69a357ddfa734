package solabi

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

var big1 = big.NewInt(1)

// encodeWord packs a scalar value into a single 32-byte word.
func encodeWord(t Type, v Value) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, encodingErr(t, v, err)
	}
	switch t.Kind {
	case UintKind:
		n, ok := integerOf(v)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		if n.Sign() < 0 {
			return nil, encodingErr(t, v, ErrNegativeValueForUnsigned)
		}
		if n.BitLen() > t.Size {
			return nil, encodingErr(t, v, ErrOverflow)
		}
		return math.PaddedBigBytes(n, WordSize), nil

	case IntKind:
		n, ok := integerOf(v)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		if !fitsSigned(n, t.Size) {
			return nil, encodingErr(t, v, ErrOverflow)
		}
		// U256Bytes truncates in place, which sign-extends negatives
		// to the full word.
		return math.U256Bytes(new(big.Int).Set(n)), nil

	case BoolKind:
		b, ok := v.(BoolValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		word := make([]byte, WordSize)
		if b {
			word[WordSize-1] = 1
		}
		return word, nil

	case AddressKind:
		a, ok := v.(AddressValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		return common.LeftPadBytes(a[:], WordSize), nil

	case FixedBytesKind, FunctionKind:
		b, ok := v.(BytesValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		if len(b) > t.Size {
			return nil, encodingErr(t, v, ErrDataTooLong)
		}
		return common.RightPadBytes(b, WordSize), nil
	}
	return nil, encodingErr(t, v, ErrTypeValueMismatch)
}

func integerOf(v Value) (*big.Int, bool) {
	switch x := v.(type) {
	case UintValue:
		return x.Int, x.Int != nil
	case IntValue:
		return x.Int, x.Int != nil
	}
	return nil, false
}

// fitsSigned reports whether n is in [-2^(bits-1), 2^(bits-1)-1].
func fitsSigned(n *big.Int, bits int) bool {
	if n.Sign() >= 0 {
		return n.BitLen() < bits
	}
	// -n-1 is the magnitude that must fit in bits-1.
	m := new(big.Int).Neg(n)
	m.Sub(m, big1)
	return m.BitLen() < bits
}

// decodeWord is the inverse of encodeWord. Unless strict is set it reads
// integers from their bits-wide window and ignores padding, the way the
// Solidity decoder cleans higher-order bits.
func decodeWord(t Type, word []byte, strict bool) (any, error) {
	if err := t.validate(); err != nil {
		return nil, decodingErr(t, 0, err)
	}
	switch t.Kind {
	case UintKind:
		x := new(big.Int).SetBytes(word)
		if x.BitLen() > t.Size {
			if strict {
				return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
			}
			x.And(x, windowMask(t.Size))
		}
		return x, nil

	case IntKind:
		x := new(big.Int).SetBytes(word)
		if t.Size < 256 {
			x.And(x, windowMask(t.Size))
		}
		// The sign lives in the top bit of the window, not of the word.
		if x.Bit(t.Size-1) == 1 {
			x.Sub(x, new(big.Int).Lsh(big1, uint(t.Size)))
		}
		if strict && !bytes.Equal(math.U256Bytes(new(big.Int).Set(x)), word) {
			return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
		}
		return x, nil

	case BoolKind:
		if strict {
			if !allZero(word[:WordSize-1]) || word[WordSize-1] > 1 {
				return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
			}
			return word[WordSize-1] == 1, nil
		}
		return !allZero(word), nil

	case AddressKind:
		if strict && !allZero(word[:WordSize-common.AddressLength]) {
			return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
		}
		return common.BytesToAddress(word[WordSize-common.AddressLength:]), nil

	case FixedBytesKind, FunctionKind:
		if strict && !allZero(word[t.Size:]) {
			return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
		}
		out := make([]byte, t.Size)
		copy(out, word[:t.Size])
		return out, nil
	}
	return nil, decodingErr(t, 0, ErrTypeShapeMismatch)
}

func windowMask(bits int) *big.Int {
	m := new(big.Int).Lsh(big1, uint(bits))
	return m.Sub(m, big1)
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
