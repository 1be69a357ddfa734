package solabi

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Encode produces the ABI encoding of values against types, following the
// head/tail layout of the Solidity ABI specification:
//
//	enc(X1..Xk) = head(X1) .. head(Xk) tail(X1) .. tail(Xk)
//
// Static values are written inline in the head; fixed-size arrays and
// tuples of static members take as many head words as they have
// elements. Dynamic values put an offset word in the head, measured from
// the start of this block, and their body in the tail.
//
// Encoding no values returns an empty, non-nil slice. On error no partial
// output is returned.
func Encode(types []Type, values []Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: got %d for %d", ErrArgumentCount, len(values), len(types))
	}
	typeAt := func(i int) Type { return types[i] }
	if err := validateTypes(typeAt, len(types)); err != nil {
		return nil, err
	}
	return encodeList(typeAt, values)
}

// EncodeParams encodes values against a parameter list.
func EncodeParams(params []Parameter, values []Value) ([]byte, error) {
	if len(params) != len(values) {
		return nil, fmt.Errorf("%w: got %d for %d", ErrArgumentCount, len(values), len(params))
	}
	typeAt := func(i int) Type { return params[i].Type }
	if err := validateTypes(typeAt, len(params)); err != nil {
		return nil, err
	}
	return encodeList(typeAt, values)
}

func validateTypes(typeAt func(int) Type, n int) error {
	for i := 0; i < n; i++ {
		if err := typeAt(i).validate(); err != nil {
			return err
		}
	}
	return nil
}

// encodeList head/tail-encodes values as one self-contained block. typeAt
// supplies the declared type of each position, which lets arrays reuse a
// single element type without materialising a type list.
func encodeList(typeAt func(int) Type, values []Value) ([]byte, error) {
	headLen := 0
	for i := range values {
		headLen += typeAt(i).headSize()
	}

	head := make([]byte, 0, headLen)
	var tail []byte

	for i, v := range values {
		t := typeAt(i)
		enc, err := encodeValue(t, v)
		if err != nil {
			return nil, err
		}
		if !t.IsDynamic() {
			head = append(head, enc...)
			continue
		}
		head = append(head, offsetWord(headLen+len(tail))...)
		tail = append(tail, enc...)
	}

	if len(head) == 0 && len(tail) == 0 {
		return []byte{}, nil
	}
	return append(head, tail...), nil
}

// encodeValue returns the full encoding of a single value: the inline
// bytes of a static value or the tail body of a dynamic one.
func encodeValue(t Type, v Value) ([]byte, error) {
	if v == nil {
		return nil, encodingErr(t, nil, ErrTypeValueMismatch)
	}

	switch t.Kind {
	case StringKind:
		s, ok := v.(StringValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		return packBytesSlice([]byte(s)), nil

	case BytesKind:
		b, ok := v.(BytesValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		return packBytesSlice(b), nil

	case ArrayKind:
		elems, ok := v.(SequenceValue)
		if !ok {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		elemType := *t.Elem
		elemAt := func(int) Type { return elemType }
		if t.Size > 0 {
			if len(elems) != t.Size {
				return nil, encodingErr(t, v, ErrTypeValueMismatch)
			}
			return encodeList(elemAt, elems)
		}
		body, err := encodeList(elemAt, elems)
		if err != nil {
			return nil, err
		}
		return append(offsetWord(len(elems)), body...), nil

	case TupleKind:
		members, ok := v.(TupleValue)
		if !ok || len(members) != len(t.Components) {
			return nil, encodingErr(t, v, ErrTypeValueMismatch)
		}
		return encodeList(func(i int) Type { return t.Components[i].Type }, members)

	default:
		return encodeWord(t, v)
	}
}

// packBytesSlice packs b as a length word followed by the data, right
// padded to a word boundary.
func packBytesSlice(b []byte) []byte {
	l := len(b)
	return append(offsetWord(l), common.RightPadBytes(b, (l+WordSize-1)/WordSize*WordSize)...)
}

// offsetWord encodes a non-negative length or offset as a uint256 word.
func offsetWord(n int) []byte {
	return math.PaddedBigBytes(big.NewInt(int64(n)), WordSize)
}
