package solabi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Value is an encoder input. This is a sealed interface: the encoder
// matches each declared Type against exactly these variants.
type Value interface {
	// isValue is unexported to seal the interface.
	isValue()
}

// BoolValue is a boolean.
type BoolValue bool

// UintValue is a non-negative integer.
type UintValue struct{ Int *big.Int }

// IntValue is a signed integer.
type IntValue struct{ Int *big.Int }

// BytesValue is a byte sequence for bytes, bytesN and function types.
type BytesValue []byte

// AddressValue is a 20-byte address.
type AddressValue common.Address

// StringValue is a string.
type StringValue string

// SequenceValue holds the elements of a fixed or dynamic-size array.
type SequenceValue []Value

// TupleValue holds the members of a tuple in declaration order.
type TupleValue []Value

func (BoolValue) isValue()     {}
func (UintValue) isValue()     {}
func (IntValue) isValue()      {}
func (BytesValue) isValue()    {}
func (AddressValue) isValue()  {}
func (StringValue) isValue()   {}
func (SequenceValue) isValue() {}
func (TupleValue) isValue()    {}

// Bool creates a bool value.
func Bool(v bool) Value {
	return BoolValue(v)
}

// Uint creates an unsigned integer value. The argument is copied.
func Uint(v *big.Int) Value {
	return UintValue{Int: new(big.Int).Set(v)}
}

// Uint64 creates an unsigned integer value from a uint64.
func Uint64(v uint64) Value {
	return UintValue{Int: new(big.Int).SetUint64(v)}
}

// Uint256Of creates an unsigned integer value from a uint256.Int.
func Uint256Of(v *uint256.Int) Value {
	return UintValue{Int: v.ToBig()}
}

// Int creates a signed integer value. The argument is copied.
func Int(v *big.Int) Value {
	return IntValue{Int: new(big.Int).Set(v)}
}

// Int64 creates a signed integer value from an int64.
func Int64(v int64) Value {
	return IntValue{Int: big.NewInt(v)}
}

// Bytes creates a byte sequence value.
func Bytes(v []byte) Value {
	return BytesValue(v)
}

// Address creates an address value.
func Address(v common.Address) Value {
	return AddressValue(v)
}

// String creates a string value.
func String(v string) Value {
	return StringValue(v)
}

// Sequence creates an array value.
func Sequence(elems ...Value) Value {
	return SequenceValue(elems)
}

// Tuple creates a tuple value.
func Tuple(members ...Value) Value {
	return TupleValue(members)
}

// ValueOf converts a Go value to the Value variant expected by t.
// Besides Value itself it accepts:
//   - any integer form understood by ToUnsignedBigInt/ToSignedBigInt
//   - bool
//   - common.Address, [20]byte, hex strings (address)
//   - []byte, [N]byte, common.Hash, 0x-prefixed hex strings (bytes, bytesN, function)
//   - string, []byte (string)
//   - slices and arrays of convertible elements (arrays)
//   - []any, Values and structs with fields in declaration order (tuples)
//
// ValueOf accepts everything Decode returns, so decoded results can be
// re-encoded.
func ValueOf(t Type, v any) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}
	mismatch := &TypeMismatchError{Expected: t.String(), Got: fmt.Sprintf("%T", v)}

	switch t.Kind {
	case UintKind:
		if n, ok := ToUnsignedBigInt(v); ok {
			return UintValue{Int: n}, nil
		}
		// Keep negatives so the encoder reports them precisely.
		if n, ok := ToSignedBigInt(v); ok {
			return IntValue{Int: n}, nil
		}
		return nil, mismatch

	case IntKind:
		if n, ok := ToSignedBigInt(v); ok {
			return IntValue{Int: n}, nil
		}
		return nil, mismatch

	case BoolKind:
		if b, ok := v.(bool); ok {
			return BoolValue(b), nil
		}
		return nil, mismatch

	case AddressKind:
		switch a := v.(type) {
		case common.Address:
			return AddressValue(a), nil
		case *common.Address:
			if a != nil {
				return AddressValue(*a), nil
			}
		case string:
			if common.IsHexAddress(a) {
				return AddressValue(common.HexToAddress(a)), nil
			}
		case []byte:
			if len(a) == common.AddressLength {
				return AddressValue(common.BytesToAddress(a)), nil
			}
		case [common.AddressLength]byte:
			return AddressValue(a), nil
		}
		return nil, mismatch

	case FixedBytesKind, FunctionKind, BytesKind:
		if b, ok := toBytes(v); ok {
			return BytesValue(b), nil
		}
		return nil, mismatch

	case StringKind:
		switch s := v.(type) {
		case string:
			return StringValue(s), nil
		case []byte:
			return StringValue(s), nil
		}
		return nil, mismatch

	case ArrayKind:
		rv := reflect.ValueOf(v)
		if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, mismatch
		}
		if t.Size > 0 && rv.Len() != t.Size {
			return nil, &TypeMismatchError{
				Expected: t.String(),
				Got:      fmt.Sprintf("%d elements", rv.Len()),
			}
		}
		elems := make(SequenceValue, rv.Len())
		for i := range elems {
			ev, err := ValueOf(*t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return elems, nil

	case TupleKind:
		return tupleValueOf(t, v, mismatch)
	}
	return nil, mismatch
}

func tupleValueOf(t Type, v any, mismatch error) (Value, error) {
	members := make(TupleValue, len(t.Components))

	if m, ok := v.(Values); ok {
		for i, c := range t.Components {
			raw, found := m[strconv.Itoa(i)]
			if !found && c.Name != "" {
				raw, found = m[c.Name]
			}
			if !found {
				return nil, &TypeMismatchError{Expected: t.String(), Got: fmt.Sprintf("map without member %d", i)}
			}
			mv, err := ValueOf(c.Type, raw)
			if err != nil {
				return nil, err
			}
			members[i] = mv
		}
		return members, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	var get func(int) any
	switch {
	case !rv.IsValid():
		return nil, mismatch
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		if rv.Len() != len(t.Components) {
			return nil, &TypeMismatchError{Expected: t.String(), Got: fmt.Sprintf("%d members", rv.Len())}
		}
		get = func(i int) any { return rv.Index(i).Interface() }
	case rv.Kind() == reflect.Struct:
		fields := exportedFields(rv)
		if len(fields) != len(t.Components) {
			return nil, &TypeMismatchError{Expected: t.String(), Got: fmt.Sprintf("struct with %d fields", len(fields))}
		}
		get = func(i int) any { return fields[i].Interface() }
	default:
		return nil, mismatch
	}

	for i, c := range t.Components {
		mv, err := ValueOf(c.Type, get(i))
		if err != nil {
			return nil, err
		}
		members[i] = mv
	}
	return members, nil
}

func exportedFields(rv reflect.Value) []reflect.Value {
	fields := make([]reflect.Value, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		if rv.Type().Field(i).IsExported() {
			fields = append(fields, rv.Field(i))
		}
	}
	return fields
}

func toBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case common.Hash:
		return b.Bytes(), true
	case common.Address:
		return b.Bytes(), true
	case string:
		if !has0xPrefix(b) {
			return nil, false
		}
		out, err := hexutil.Decode(b)
		if err != nil {
			return nil, false
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, true
	}
	return nil, false
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// convertArgs converts a list of Go values against the parameter types.
func convertArgs(method string, params []Parameter, args []any) ([]Value, error) {
	if len(args) != len(params) {
		return nil, &ArgumentError{
			Method: method,
			Index:  len(args),
			Err:    fmt.Errorf("%w: got %d for %d", ErrArgumentCount, len(args), len(params)),
		}
	}
	values := make([]Value, len(args))
	for i, arg := range args {
		v, err := ValueOf(params[i].Type, arg)
		if err != nil {
			return nil, &ArgumentError{Method: method, Index: i, Err: err}
		}
		values[i] = v
	}
	return values, nil
}
