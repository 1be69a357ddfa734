package solabi

import (
	"errors"
	"testing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Uint256, "uint256"},
		{IntType(8), "int8"},
		{AddressType, "address"},
		{BoolType, "bool"},
		{Bytes32, "bytes32"},
		{FixedBytesType(1), "bytes1"},
		{BytesType, "bytes"},
		{StringType, "string"},
		{FunctionType, "function"},
		{SliceType(Uint256), "uint256[]"},
		{ArrayType(AddressType, 3), "address[3]"},
		{SliceType(ArrayType(StringType, 2)), "string[2][]"},
		{TupleOf(Uint256, StringType), "(uint256,string)"},
		{SliceType(TupleType(Component{"a", AddressType}, Component{"b", SliceType(Bytes4)})), "(address,bytes4[])[]"},
		{TupleOf(), "()"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTypeIsDynamic(t *testing.T) {
	tests := []struct {
		typ       Type
		isDynamic bool
	}{
		{Uint256, false},
		{Int256, false},
		{AddressType, false},
		{Bytes32, false},
		{BoolType, false},
		{Uint8, false},
		{FunctionType, false},
		{StringType, true},
		{BytesType, true},
		{SliceType(Uint256), true},
		{ArrayType(Uint256, 2), false},
		{ArrayType(StringType, 2), true},
		{TupleOf(Uint256, AddressType), false},
		{TupleOf(Uint256, StringType), true},
		{ArrayType(TupleOf(Uint256, SliceType(Uint8)), 1), true},
		{TupleOf(), false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.IsDynamic(); got != tt.isDynamic {
				t.Errorf("IsDynamic() = %v, want %v", got, tt.isDynamic)
			}
		})
	}
}

func TestTypeHeadSize(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{Uint256, 32},
		{StringType, 32},
		{SliceType(Uint256), 32},
		{ArrayType(Uint256, 3), 96},
		{ArrayType(ArrayType(BoolType, 2), 3), 192},
		{TupleOf(Uint256, AddressType, Bytes4), 96},
		{TupleOf(Uint256, StringType), 32},
		{ArrayType(TupleOf(Uint8, Uint8), 2), 128},
		{TupleOf(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.headSize(); got != tt.want {
				t.Errorf("headSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypeIsScalar(t *testing.T) {
	for _, typ := range []Type{Uint256, IntType(16), AddressType, BoolType, Bytes4, FunctionType} {
		if !typ.IsScalar() {
			t.Errorf("%s should be scalar", typ)
		}
	}
	for _, typ := range []Type{StringType, BytesType, SliceType(Uint8), ArrayType(Uint8, 1), TupleOf(Uint8)} {
		if typ.IsScalar() {
			t.Errorf("%s should not be scalar", typ)
		}
	}
}

func TestTypeEqual(t *testing.T) {
	a := TupleType(Component{"x", Uint256}, Component{"y", SliceType(StringType)})
	b := TupleType(Component{"p", Uint256}, Component{"q", SliceType(StringType)})

	if !a.Equal(b) {
		t.Error("Tuples differing only in names should be equal")
	}
	if a.Equal(TupleOf(Uint256)) {
		t.Error("Tuples with different arity should differ")
	}
	if Uint256.Equal(Int256) {
		t.Error("uint256 and int256 should differ")
	}
	if ArrayType(Uint8, 2).Equal(ArrayType(Uint8, 3)) {
		t.Error("Arrays of different length should differ")
	}
	if !ArrayType(Uint8, 2).Equal(ArrayType(UintType(8), 2)) {
		t.Error("Identical arrays should be equal")
	}
}

func TestTypeConstructorsPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"uint7", func() { UintType(7) }},
		{"uint264", func() { UintType(264) }},
		{"int0", func() { IntType(0) }},
		{"bytes0", func() { FixedBytesType(0) }},
		{"bytes33", func() { FixedBytesType(33) }},
		{"negative array", func() { ArrayType(Uint8, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestKindString(t *testing.T) {
	if UintKind.String() != "uint" {
		t.Errorf("Expected uint, got %s", UintKind)
	}
	if TupleKind.String() != "tuple" {
		t.Errorf("Expected tuple, got %s", TupleKind)
	}
	if InvalidKind.String() != "invalid" {
		t.Errorf("Expected invalid, got %s", InvalidKind)
	}
	if Kind(200).String() != "kind(200)" {
		t.Errorf("Expected kind(200), got %s", Kind(200))
	}
}

func TestTypeValidate(t *testing.T) {
	valid := []Type{
		Uint256,
		IntType(8),
		FunctionType,
		TupleOf(),
		ArrayType(TupleOf(), 3),
		SliceType(TupleOf(Uint8, TupleOf())),
		MustParseType("(address,(uint256,bytes)[])[2]"),
		ArrayType(Uint8, maxStaticWords),
	}
	for _, typ := range valid {
		t.Run(typ.String(), func(t *testing.T) {
			if err := typ.validate(); err != nil {
				t.Errorf("validate() error = %v", err)
			}
		})
	}

	invalid := []struct {
		name string
		typ  Type
	}{
		{"zero type", Type{}},
		{"uint0", Type{Kind: UintKind}},
		{"int7", Type{Kind: IntKind, Size: 7}},
		{"bytes0", Type{Kind: FixedBytesKind}},
		{"unknown kind", Type{Kind: Kind(200)}},
		{"array without element", Type{Kind: ArrayKind}},
		{"negative length", Type{Kind: ArrayKind, Size: -1, Elem: &Uint8}},
		{"zero-width slice", SliceType(ArrayType(TupleOf(), 2))},
		{"oversized array", ArrayType(Uint8, maxStaticWords+1)},
		{"oversized nesting", ArrayType(ArrayType(Uint256, 1<<12), 1<<13)},
		{"oversized tuple", TupleOf(ArrayType(Uint8, maxStaticWords), Uint8)},
		{"invalid member", TupleOf(Uint8, Type{Kind: IntKind})},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.typ.validate(); !errors.Is(err, ErrInvalidType) {
				t.Errorf("validate() error = %v, want ErrInvalidType", err)
			}
		})
	}
}
