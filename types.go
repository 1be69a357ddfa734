package solabi

import (
	"fmt"
	"strings"
)

// WordSize is the width of one ABI word in bytes.
const WordSize = 32

// Kind identifies the variant of an ABI type.
type Kind uint8

const (
	// InvalidKind is the zero Kind. A Type of this kind is rejected by
	// every codec operation.
	InvalidKind Kind = iota

	// UintKind is an unsigned integer of Size bits.
	UintKind

	// IntKind is a two's-complement signed integer of Size bits.
	IntKind

	// AddressKind is a 20-byte account address.
	AddressKind

	// BoolKind is a boolean, encoded as uint8 0 or 1.
	BoolKind

	// FixedBytesKind is bytesN with N = Size in 1..32.
	FixedBytesKind

	// BytesKind is the dynamic byte sequence "bytes".
	BytesKind

	// StringKind is a UTF-8 string.
	StringKind

	// ArrayKind is T[Size], or T[] when Size is 0.
	ArrayKind

	// TupleKind is an ordered list of named components.
	TupleKind

	// FunctionKind is an address followed by a selector (bytes24).
	FunctionKind
)

var kindNames = [...]string{
	InvalidKind:    "invalid",
	UintKind:       "uint",
	IntKind:        "int",
	AddressKind:    "address",
	BoolKind:       "bool",
	FixedBytesKind: "bytes",
	BytesKind:      "bytes",
	StringKind:     "string",
	ArrayKind:      "array",
	TupleKind:      "tuple",
	FunctionKind:   "function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Component is a named member of a tuple type.
type Component struct {
	Name string
	Type Type
}

// Type describes a Solidity ABI type. Types are values and are never
// mutated once constructed; composite types share their element
// descriptors.
type Type struct {
	Kind Kind

	// Size is the bit width for integers, the byte length for fixed bytes
	// and the element count for arrays (0 for a dynamic-size array).
	Size int

	// Elem is the element type of an array.
	Elem *Type

	// Components lists the members of a tuple.
	Components []Component
}

// Elementary types.
var (
	AddressType  = Type{Kind: AddressKind, Size: 20}
	BoolType     = Type{Kind: BoolKind}
	BytesType    = Type{Kind: BytesKind}
	StringType   = Type{Kind: StringKind}
	FunctionType = Type{Kind: FunctionKind, Size: 24}

	Uint8   = UintType(8)
	Uint256 = UintType(256)
	Int256  = IntType(256)
	Bytes4  = FixedBytesType(4)
	Bytes32 = FixedBytesType(32)
)

// UintType returns uint<bits>. It panics unless bits is a multiple of 8
// in 8..256.
func UintType(bits int) Type {
	mustIntWidth(bits)
	return Type{Kind: UintKind, Size: bits}
}

// IntType returns int<bits>. It panics unless bits is a multiple of 8
// in 8..256.
func IntType(bits int) Type {
	mustIntWidth(bits)
	return Type{Kind: IntKind, Size: bits}
}

// FixedBytesType returns bytes<n>. It panics unless n is in 1..32.
func FixedBytesType(n int) Type {
	if n < 1 || n > 32 {
		panic(fmt.Sprintf("solabi: invalid fixed bytes length %d", n))
	}
	return Type{Kind: FixedBytesKind, Size: n}
}

// ArrayType returns elem[n]. A length of zero yields the dynamic-size
// array elem[].
func ArrayType(elem Type, n int) Type {
	if n < 0 {
		panic(fmt.Sprintf("solabi: negative array length %d", n))
	}
	e := elem
	return Type{Kind: ArrayKind, Size: n, Elem: &e}
}

// SliceType returns the dynamic-size array elem[].
func SliceType(elem Type) Type {
	return ArrayType(elem, 0)
}

// TupleType returns a tuple of the given components.
func TupleType(components ...Component) Type {
	cs := make([]Component, len(components))
	copy(cs, components)
	return Type{Kind: TupleKind, Components: cs}
}

// TupleOf returns a tuple of unnamed components.
func TupleOf(types ...Type) Type {
	cs := make([]Component, len(types))
	for i, t := range types {
		cs[i] = Component{Type: t}
	}
	return Type{Kind: TupleKind, Components: cs}
}

func mustIntWidth(bits int) {
	if !validIntWidth(bits) {
		panic(fmt.Sprintf("solabi: invalid integer width %d", bits))
	}
}

func validIntWidth(bits int) bool {
	return bits >= 8 && bits <= 256 && bits%8 == 0
}

// IsDynamic reports whether the encoded width of t depends on its value.
// Strings, dynamic bytes and dynamic-size arrays are dynamic; fixed-size
// arrays and tuples are dynamic when any member is.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case BytesKind, StringKind:
		return true
	case ArrayKind:
		return t.Size == 0 || t.Elem.IsDynamic()
	case TupleKind:
		for _, c := range t.Components {
			if c.Type.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsScalar reports whether t occupies exactly one word and holds no
// nested types.
func (t Type) IsScalar() bool {
	switch t.Kind {
	case UintKind, IntKind, AddressKind, BoolKind, FixedBytesKind, FunctionKind:
		return true
	default:
		return false
	}
}

// headSize returns the number of bytes t occupies in the head of an
// enclosing block: one offset word for dynamic types, the full inline
// width for static ones.
func (t Type) headSize() int {
	if t.IsDynamic() {
		return WordSize
	}
	switch t.Kind {
	case ArrayKind:
		return t.Size * t.Elem.headSize()
	case TupleKind:
		total := 0
		for _, c := range t.Components {
			total += c.Type.headSize()
		}
		return total
	default:
		return WordSize
	}
}

// maxStaticWords bounds the inline footprint of a type, with an empty
// tuple counted as one word.
const maxStaticWords = 1 << 24

// validate checks that t is well formed: a known kind, a legal width, an
// element type for arrays and a bounded inline footprint. A dynamic array
// of zero-width elements is rejected since its length cannot be checked
// against the input.
func (t Type) validate() error {
	_, err := t.staticWords()
	return err
}

// staticWords returns an upper bound on the head words t spans inline.
func (t Type) staticWords() (int, error) {
	switch t.Kind {
	case UintKind, IntKind:
		if !validIntWidth(t.Size) {
			return 0, fmt.Errorf("%w: %s%d", ErrInvalidType, t.Kind, t.Size)
		}
		return 1, nil
	case FixedBytesKind:
		if t.Size < 1 || t.Size > 32 {
			return 0, fmt.Errorf("%w: bytes%d", ErrInvalidType, t.Size)
		}
		return 1, nil
	case AddressKind, BoolKind, FunctionKind, BytesKind, StringKind:
		return 1, nil
	case ArrayKind:
		if t.Elem == nil || t.Size < 0 {
			return 0, fmt.Errorf("%w: malformed array", ErrInvalidType)
		}
		n, err := t.Elem.staticWords()
		if err != nil {
			return 0, err
		}
		if t.Size == 0 {
			if t.Elem.headSize() == 0 {
				return 0, fmt.Errorf("%w: %s has zero-width elements", ErrInvalidType, t)
			}
			return 1, nil
		}
		if t.Size > maxStaticWords/n {
			return 0, fmt.Errorf("%w: array length %d too large", ErrInvalidType, t.Size)
		}
		return t.Size * n, nil
	case TupleKind:
		total := 0
		for _, c := range t.Components {
			n, err := c.Type.staticWords()
			if err != nil {
				return 0, err
			}
			total += n
			if total > maxStaticWords {
				return 0, fmt.Errorf("%w: tuple too large", ErrInvalidType)
			}
		}
		if total == 0 {
			return 1, nil
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidType, t.Kind)
}

// String returns the canonical type name used in signatures.
func (t Type) String() string {
	var b strings.Builder
	t.writeCanonical(&b)
	return b.String()
}

func (t Type) writeCanonical(b *strings.Builder) {
	switch t.Kind {
	case UintKind, IntKind:
		fmt.Fprintf(b, "%s%d", t.Kind, t.Size)
	case FixedBytesKind:
		fmt.Fprintf(b, "bytes%d", t.Size)
	case ArrayKind:
		t.Elem.writeCanonical(b)
		if t.Size == 0 {
			b.WriteString("[]")
		} else {
			fmt.Fprintf(b, "[%d]", t.Size)
		}
	case TupleKind:
		b.WriteByte('(')
		for i, c := range t.Components {
			if i > 0 {
				b.WriteByte(',')
			}
			c.Type.writeCanonical(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString(t.Kind.String())
	}
}

// Equal reports whether t and o describe the same type. Component names
// are ignored.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Size != o.Size {
		return false
	}
	switch t.Kind {
	case ArrayKind:
		return t.Elem.Equal(*o.Elem)
	case TupleKind:
		if len(t.Components) != len(o.Components) {
			return false
		}
		for i := range t.Components {
			if !t.Components[i].Type.Equal(o.Components[i].Type) {
				return false
			}
		}
	}
	return true
}
