package solabi

import (
	"math/big"
	"strconv"
	"strings"
)

// Values is a decoded parameter list or tuple. Every member is stored
// under its position ("0", "1", ...) and, when it has a non-blank name,
// under its trimmed name as well.
//
// Members are *big.Int for integers, bool, common.Address, []byte for
// bytes, bytesN and function, string, []any for arrays and Values for
// tuples.
type Values map[string]any

// Index returns the member at position i, or nil.
func (v Values) Index(i int) any {
	return v[strconv.Itoa(i)]
}

// Positional returns the members in declaration order.
func (v Values) Positional() []any {
	var out []any
	for i := 0; ; i++ {
		m, ok := v[strconv.Itoa(i)]
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func newValues(names func(int) string, members []any) Values {
	out := make(Values, len(members)*2)
	for i, m := range members {
		if name := strings.TrimSpace(names(i)); name != "" {
			out[name] = m
		}
	}
	// Positions win over a member whose name looks like an index.
	for i, m := range members {
		out[strconv.Itoa(i)] = m
	}
	return out
}

// Decode reads values of the given types from data, which must start with
// the head of the encoded block. Offsets are taken relative to the start
// of data, so a sub-slice of a larger buffer decodes the same as a
// standalone buffer.
func Decode(types []Type, data []byte, opts ...DecodeOption) ([]any, error) {
	typeAt := func(i int) Type { return types[i] }
	d := newDecoder(opts)
	if err := d.start(typeAt, len(types), data); err != nil {
		return nil, err
	}
	return d.decodeList(typeAt, len(types), data)
}

// DecodeParams decodes data against a parameter list and returns the
// members keyed by position and name.
func DecodeParams(params []Parameter, data []byte, opts ...DecodeOption) (Values, error) {
	typeAt := func(i int) Type { return params[i].Type }
	d := newDecoder(opts)
	if err := d.start(typeAt, len(params), data); err != nil {
		return nil, err
	}
	members, err := d.decodeList(typeAt, len(params), data)
	if err != nil {
		return nil, err
	}
	return newValues(func(i int) string { return params[i].Name }, members), nil
}

type decoder struct {
	strict bool

	// budget is the number of input words not yet claimed by a decoded
	// value. Tails reached through more than one offset claim their words
	// again, so a budget overrun means overlapping offsets.
	budget int
}

func newDecoder(opts []DecodeOption) *decoder {
	cfg := newDecodeConfig(opts)
	return &decoder{strict: cfg.strict}
}

// start checks the types about to be read from data and sizes the budget.
func (d *decoder) start(typeAt func(int) Type, n int, data []byte) error {
	if err := validateTypes(typeAt, n); err != nil {
		return err
	}
	d.budget = (len(data) + WordSize - 1) / WordSize
	return nil
}

// claim takes words from the budget for a value of type t.
func (d *decoder) claim(t Type, words int) error {
	if words > d.budget {
		return decodingErr(t, 0, ErrOffsetOutOfRange)
	}
	d.budget -= words
	return nil
}

// decodeList is the inverse of encodeList.
func (d *decoder) decodeList(typeAt func(int) Type, n int, data []byte) ([]any, error) {
	out := make([]any, n)
	cursor := 0
	for i := 0; i < n; i++ {
		t := typeAt(i)
		size := t.headSize()

		if t.IsDynamic() {
			offset, err := readOffset(t, data, cursor)
			if err != nil {
				return nil, err
			}
			v, err := d.decodeValue(t, data[offset:])
			if err != nil {
				return nil, err
			}
			out[i] = v
		} else {
			if cursor+size > len(data) {
				return nil, decodingErr(t, cursor, ErrTruncated)
			}
			v, err := d.decodeValue(t, data[cursor:cursor+size])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		cursor += size
	}
	return out, nil
}

func (d *decoder) decodeValue(t Type, data []byte) (any, error) {
	switch t.Kind {
	case StringKind, BytesKind:
		n, err := readLength(t, data)
		if err != nil {
			return nil, err
		}
		if err := d.claim(t, 1+(n+WordSize-1)/WordSize); err != nil {
			return nil, err
		}
		end := WordSize + n
		if d.strict {
			padded := WordSize + (n+WordSize-1)/WordSize*WordSize
			if padded > len(data) {
				return nil, decodingErr(t, 0, ErrTruncated)
			}
			if !allZero(data[end:padded]) {
				return nil, decodingErr(t, end, ErrTypeShapeMismatch)
			}
		}
		if t.Kind == StringKind {
			return string(data[WordSize:end]), nil
		}
		out := make([]byte, n)
		copy(out, data[WordSize:end])
		return out, nil

	case ArrayKind:
		elemType := *t.Elem
		elemAt := func(int) Type { return elemType }
		if t.Size > 0 {
			// Elements with a head width hold at least one claimed word
			// each; zero-width ones are bounded by the type.
			if elemType.headSize() > 0 && t.Size > d.budget {
				return nil, decodingErr(t, 0, ErrOffsetOutOfRange)
			}
			return d.decodeList(elemAt, t.Size, data)
		}
		count, err := readLength(t, data)
		if err != nil {
			return nil, err
		}
		body := data[WordSize:]
		// Every element takes at least one word of head, which bounds the
		// count by the input size before anything is allocated.
		stride := elemType.headSize()
		if stride < WordSize {
			stride = WordSize
		}
		if count > len(body)/stride {
			return nil, decodingErr(t, 0, ErrTruncated)
		}
		if err := d.claim(t, 1); err != nil {
			return nil, err
		}
		if count > d.budget {
			return nil, decodingErr(t, 0, ErrOffsetOutOfRange)
		}
		return d.decodeList(elemAt, count, body)

	case TupleKind:
		members, err := d.decodeList(func(i int) Type { return t.Components[i].Type }, len(t.Components), data)
		if err != nil {
			return nil, err
		}
		return newValues(func(i int) string { return t.Components[i].Name }, members), nil

	default:
		if len(data) < WordSize {
			return nil, decodingErr(t, 0, ErrTruncated)
		}
		if err := d.claim(t, 1); err != nil {
			return nil, err
		}
		return decodeWord(t, data[:WordSize], d.strict)
	}
}

// readOffset reads the offset word at pos and checks that it points
// inside data.
func readOffset(t Type, data []byte, pos int) (int, error) {
	if pos+WordSize > len(data) {
		return 0, decodingErr(t, pos, ErrTruncated)
	}
	offset := new(big.Int).SetBytes(data[pos : pos+WordSize])
	if !offset.IsUint64() || offset.Uint64() > uint64(len(data)) {
		return 0, decodingErr(t, pos, ErrOffsetOutOfRange)
	}
	return int(offset.Uint64()), nil
}

// readLength reads the leading length word of a dynamic value and checks
// that that many bytes follow it.
func readLength(t Type, data []byte) (int, error) {
	if len(data) < WordSize {
		return 0, decodingErr(t, 0, ErrTruncated)
	}
	length := new(big.Int).SetBytes(data[:WordSize])
	if !length.IsUint64() || length.Uint64() > uint64(len(data)-WordSize) {
		return 0, decodingErr(t, 0, ErrTruncated)
	}
	return int(length.Uint64()), nil
}
