package solabi

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Encoding failures. They report a caller mistake and are never retried.
var (
	// ErrNegativeValueForUnsigned indicates a negative value for a uint type.
	ErrNegativeValueForUnsigned = errors.New("solabi: negative value for unsigned type")

	// ErrOverflow indicates an integer that does not fit the declared width.
	ErrOverflow = errors.New("solabi: value overflows type width")

	// ErrDataTooLong indicates a byte value longer than its fixed bytesN type.
	ErrDataTooLong = errors.New("solabi: data too long for fixed bytes type")

	// ErrTypeValueMismatch indicates a value that cannot represent the type.
	ErrTypeValueMismatch = errors.New("solabi: value does not match type")
)

// Decoding failures. They report malformed or adversarial input.
var (
	// ErrTruncated indicates a read past the end of the input.
	ErrTruncated = errors.New("solabi: input truncated")

	// ErrOffsetOutOfRange indicates an offset or length word pointing outside the input.
	ErrOffsetOutOfRange = errors.New("solabi: offset out of range")

	// ErrTypeShapeMismatch indicates input whose layout does not fit the type.
	ErrTypeShapeMismatch = errors.New("solabi: input does not match type shape")
)

var (
	// ErrArgumentCount indicates a value count that differs from the parameter count.
	ErrArgumentCount = errors.New("solabi: argument count mismatch")

	// ErrTopicMismatch indicates log topics that do not belong to the event.
	ErrTopicMismatch = errors.New("solabi: log topics do not match event")

	// ErrInvalidType indicates an unparsable or unsupported type string.
	ErrInvalidType = errors.New("solabi: invalid type")

	// ErrInvalidSignature indicates an unparsable human-readable signature.
	ErrInvalidSignature = errors.New("solabi: invalid signature")

	// ErrNotPayable indicates value attached to a call of a non-payable function.
	ErrNotPayable = errors.New("solabi: function is not payable")

	// ErrBatchEmpty indicates a multicall batch without calls.
	ErrBatchEmpty = errors.New("solabi: batch has no calls")

	// ErrBatchResultCount indicates a multicall response whose result count
	// differs from the number of calls.
	ErrBatchResultCount = errors.New("solabi: batch result count mismatch")
)

// EncodingError wraps an encoding sentinel with the type and value involved.
type EncodingError struct {
	Type  Type
	Value Value
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("solabi: encoding %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("solabi: encoding %s from %T: %v", e.Type, e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodingError wraps a decoding sentinel with the type being read and
// the byte offset, relative to the block being decoded, where it failed.
type DecodingError struct {
	Type   Type
	Offset int
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("solabi: decoding %s at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// MethodNotFoundError indicates the contract doesn't declare the requested member.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("solabi: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// ArgumentError indicates an issue with a function argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("solabi: argument %d for %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// BatchError wraps errors that concern one call of a multicall batch.
type BatchError struct {
	CallIndex int
	Method    string
	Err       error
}

func (e *BatchError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("solabi: batch call %d (%s): %v", e.CallIndex, e.Method, e.Err)
	}
	return fmt.Sprintf("solabi: batch call %d: %v", e.CallIndex, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// TypeMismatchError indicates a Go value whose kind can't be converted to the
// expected parameter type.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("solabi: type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrTypeValueMismatch) hold for conversion failures.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeValueMismatch
}

func encodingErr(t Type, v Value, err error) error {
	return &EncodingError{Type: t, Value: v, Err: err}
}

func decodingErr(t Type, offset int, err error) error {
	return &DecodingError{Type: t, Offset: offset, Err: err}
}
