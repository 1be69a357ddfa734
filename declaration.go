package solabi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Parameter is a typed, optionally named input or output of a declaration.
// Indexed is only meaningful for event inputs.
type Parameter struct {
	Name    string
	Type    Type
	Indexed bool
}

// Param is shorthand for an unindexed Parameter.
func Param(name string, t Type) Parameter {
	return Parameter{Name: name, Type: t}
}

// Indexed is shorthand for an indexed event Parameter.
func Indexed(name string, t Type) Parameter {
	return Parameter{Name: name, Type: t, Indexed: true}
}

// Types returns the types of params in order.
func Types(params []Parameter) []Type {
	types := make([]Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

// canonicalSignature returns name(t1,t2,...) with canonical type names
// and no parameter names or spaces.
func canonicalSignature(name string, params []Parameter) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		p.Type.writeCanonical(&b)
	}
	b.WriteByte(')')
	return b.String()
}

// humanReadable is canonicalSignature with each non-blank parameter name
// appended after its type, e.g. Error(address sender,uint256).
func humanReadable(name string, params []Parameter) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		p.Type.writeCanonical(&b)
		if p.Indexed {
			b.WriteString(" indexed")
		}
		if n := strings.TrimSpace(p.Name); n != "" {
			b.WriteByte(' ')
			b.WriteString(n)
		}
	}
	b.WriteByte(')')
	return b.String()
}

func selectorOf(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature)))
	return sel
}

func cloneParams(params []Parameter) []Parameter {
	out := make([]Parameter, len(params))
	copy(out, params)
	return out
}

// Function is a contract function declaration. It is immutable; the
// signature and selector are computed once by NewFunction.
type Function struct {
	name     string
	inputs   []Parameter
	outputs  []Parameter
	constant bool
	payable  bool

	sig      string
	selector [4]byte
}

// FunctionOption configures a Function.
type FunctionOption func(*Function)

// WithConstant marks the function as not modifying state (view or pure).
func WithConstant() FunctionOption {
	return func(f *Function) {
		f.constant = true
	}
}

// WithPayable marks the function as accepting ether.
func WithPayable() FunctionOption {
	return func(f *Function) {
		f.payable = true
	}
}

// NewFunction creates a function declaration.
func NewFunction(name string, inputs, outputs []Parameter, opts ...FunctionOption) Function {
	f := Function{
		name:    name,
		inputs:  cloneParams(inputs),
		outputs: cloneParams(outputs),
	}
	for _, opt := range opts {
		opt(&f)
	}
	f.sig = canonicalSignature(name, f.inputs)
	f.selector = selectorOf(f.sig)
	return f
}

// Name returns the function name.
func (f Function) Name() string { return f.name }

// Inputs returns a copy of the input parameters.
func (f Function) Inputs() []Parameter { return cloneParams(f.inputs) }

// Outputs returns a copy of the output parameters.
func (f Function) Outputs() []Parameter { return cloneParams(f.outputs) }

// IsConstant reports whether the function is view or pure.
func (f Function) IsConstant() bool { return f.constant }

// IsPayable reports whether the function accepts ether.
func (f Function) IsPayable() bool { return f.payable }

// Signature returns the canonical signature, e.g. transfer(address,uint256).
func (f Function) Signature() string { return f.sig }

// Selector returns the first four bytes of keccak256(Signature()).
func (f Function) Selector() [4]byte { return f.selector }

// String returns the signature including parameter names.
func (f Function) String() string { return humanReadable(f.name, f.inputs) }

// EncodeCall returns the selector followed by the encoded arguments.
func (f Function) EncodeCall(args ...Value) ([]byte, error) {
	if len(args) != len(f.inputs) {
		return nil, &ArgumentError{
			Method: f.name,
			Index:  len(args),
			Err:    fmt.Errorf("%w: got %d for %d", ErrArgumentCount, len(args), len(f.inputs)),
		}
	}
	enc, err := EncodeParams(f.inputs, args)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4+len(enc))
	out = append(out, f.selector[:]...)
	return append(out, enc...), nil
}

// Pack converts Go arguments with ValueOf and encodes the call.
func (f Function) Pack(args ...any) ([]byte, error) {
	values, err := convertArgs(f.name, f.inputs, args)
	if err != nil {
		return nil, err
	}
	return f.EncodeCall(values...)
}

// DecodeInput decodes call data produced by EncodeCall.
func (f Function) DecodeInput(data []byte, opts ...DecodeOption) (Values, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: call data shorter than a selector", ErrTruncated)
	}
	if !bytes.Equal(data[:4], f.selector[:]) {
		return nil, fmt.Errorf("%w: selector %#x, want %#x", ErrTypeShapeMismatch, data[:4], f.selector)
	}
	return DecodeParams(f.inputs, data[4:], opts...)
}

// DecodeReturn decodes the return data of a call to f.
//
// A non-nil *CallFailure means the data describes a failed call (see
// DecodeFailure); the error is reserved for data the codec cannot read.
// When f declares no outputs and data is empty the outcome is ambiguous
// and DecodeReturn reports an empty result with neither.
func (f Function) DecodeReturn(data []byte, opts ...DecodeOption) (Values, *CallFailure, error) {
	if failure := DecodeFailure(f.outputs, data, opts...); failure != nil {
		return nil, failure, nil
	}
	values, err := DecodeParams(f.outputs, data, opts...)
	if err != nil {
		return nil, nil, err
	}
	return values, nil, nil
}

// Event is a contract event declaration.
type Event struct {
	name      string
	inputs    []Parameter
	anonymous bool

	sig string
	id  common.Hash
}

// NewEvent creates an event declaration.
func NewEvent(name string, inputs []Parameter, anonymous bool) Event {
	e := Event{
		name:      name,
		inputs:    cloneParams(inputs),
		anonymous: anonymous,
	}
	e.sig = canonicalSignature(name, e.inputs)
	e.id = crypto.Keccak256Hash([]byte(e.sig))
	return e
}

// Name returns the event name.
func (e Event) Name() string { return e.name }

// Inputs returns a copy of the event parameters.
func (e Event) Inputs() []Parameter { return cloneParams(e.inputs) }

// IsAnonymous reports whether the event omits its ID from the topics.
func (e Event) IsAnonymous() bool { return e.anonymous }

// Signature returns the canonical signature.
func (e Event) Signature() string { return e.sig }

// ID returns keccak256(Signature()), the first topic of a non-anonymous log.
func (e Event) ID() common.Hash { return e.id }

// Selector returns the first four bytes of ID.
func (e Event) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], e.id[:4])
	return sel
}

// String returns the signature including indexed markers and names.
func (e Event) String() string { return humanReadable(e.name, e.inputs) }

// Error is a custom error declaration (Solidity >= 0.8.4).
type Error struct {
	name   string
	inputs []Parameter

	sig      string
	selector [4]byte
}

// NewError creates a custom error declaration.
func NewError(name string, inputs []Parameter) Error {
	e := Error{
		name:   name,
		inputs: cloneParams(inputs),
	}
	e.sig = canonicalSignature(name, e.inputs)
	e.selector = selectorOf(e.sig)
	return e
}

// Name returns the error name.
func (e Error) Name() string { return e.name }

// Inputs returns a copy of the error parameters.
func (e Error) Inputs() []Parameter { return cloneParams(e.inputs) }

// Signature returns the canonical signature.
func (e Error) Signature() string { return e.sig }

// Selector returns the first four bytes of keccak256(Signature()).
func (e Error) Selector() [4]byte { return e.selector }

// String returns the signature including parameter names, e.g.
// Unauthorized(string message_arg).
func (e Error) String() string { return humanReadable(e.name, e.inputs) }

// Encode returns the revert data for this error: the selector followed by
// the encoded arguments.
func (e Error) Encode(args ...Value) ([]byte, error) {
	enc, err := EncodeParams(e.inputs, args)
	if err != nil {
		return nil, err
	}
	return append(e.selector[:], enc...), nil
}

// DecodeArgs decodes revert data produced by Encode.
func (e Error) DecodeArgs(data []byte, opts ...DecodeOption) (Values, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: revert data shorter than a selector", ErrTruncated)
	}
	if !bytes.Equal(data[:4], e.selector[:]) {
		return nil, fmt.Errorf("%w: selector %#x, want %#x", ErrTypeShapeMismatch, data[:4], e.selector)
	}
	return DecodeParams(e.inputs, data[4:], opts...)
}
