package solabi

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Interface is the set of declarations of a contract, keyed by name.
// Overloaded functions are keyed the way go-ethereum names them: the
// first keeps its name, later ones get a numeric suffix.
type Interface struct {
	functions map[string]Function
	events    map[string]Event
	errors    map[string]Error
}

// NewInterface creates an Interface from declarations. Later declarations
// replace earlier ones with the same name.
func NewInterface(functions []Function, events []Event, errs []Error) *Interface {
	iface := &Interface{
		functions: make(map[string]Function, len(functions)),
		events:    make(map[string]Event, len(events)),
		errors:    make(map[string]Error, len(errs)),
	}
	for _, f := range functions {
		iface.functions[f.Name()] = f
	}
	for _, e := range events {
		iface.events[e.Name()] = e
	}
	for _, e := range errs {
		iface.errors[e.Name()] = e
	}
	return iface
}

// ParseABI parses a JSON ABI into an Interface.
func ParseABI(abiJSON string) (*Interface, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, err
	}
	return FromABI(parsed)
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) *Interface {
	iface, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return iface
}

// FromABI converts a go-ethereum ABI into an Interface.
func FromABI(contractABI abi.ABI) (*Interface, error) {
	iface := &Interface{
		functions: make(map[string]Function, len(contractABI.Methods)),
		events:    make(map[string]Event, len(contractABI.Events)),
		errors:    make(map[string]Error, len(contractABI.Errors)),
	}
	for key, m := range contractABI.Methods {
		inputs, err := paramsFromArguments(m.Inputs)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", m.Sig, err)
		}
		outputs, err := paramsFromArguments(m.Outputs)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", m.Sig, err)
		}
		var opts []FunctionOption
		if m.IsConstant() {
			opts = append(opts, WithConstant())
		}
		if m.IsPayable() {
			opts = append(opts, WithPayable())
		}
		iface.functions[key] = NewFunction(m.RawName, inputs, outputs, opts...)
	}
	for key, e := range contractABI.Events {
		inputs, err := paramsFromArguments(e.Inputs)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.Sig, err)
		}
		iface.events[key] = NewEvent(e.RawName, inputs, e.Anonymous)
	}
	for key, e := range contractABI.Errors {
		inputs, err := paramsFromArguments(e.Inputs)
		if err != nil {
			return nil, fmt.Errorf("error %s: %w", e.Sig, err)
		}
		iface.errors[key] = NewError(e.Name, inputs)
	}
	return iface, nil
}

func paramsFromArguments(args abi.Arguments) ([]Parameter, error) {
	params := make([]Parameter, len(args))
	for i, arg := range args {
		t, err := typeFromABI(arg.Type)
		if err != nil {
			return nil, err
		}
		if err := t.validate(); err != nil {
			return nil, err
		}
		params[i] = Parameter{Name: arg.Name, Type: t, Indexed: arg.Indexed}
	}
	return params, nil
}

func typeFromABI(t abi.Type) (Type, error) {
	switch t.T {
	case abi.UintTy:
		return UintType(t.Size), nil
	case abi.IntTy:
		return IntType(t.Size), nil
	case abi.BoolTy:
		return BoolType, nil
	case abi.AddressTy:
		return AddressType, nil
	case abi.StringTy:
		return StringType, nil
	case abi.BytesTy:
		return BytesType, nil
	case abi.FixedBytesTy:
		return FixedBytesType(t.Size), nil
	case abi.HashTy:
		return Bytes32, nil
	case abi.FunctionTy:
		return FunctionType, nil
	case abi.SliceTy, abi.ArrayTy:
		elem, err := typeFromABI(*t.Elem)
		if err != nil {
			return Type{}, err
		}
		if t.T == abi.SliceTy {
			return SliceType(elem), nil
		}
		return ArrayType(elem, t.Size), nil
	case abi.TupleTy:
		components := make([]Component, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			ct, err := typeFromABI(*elem)
			if err != nil {
				return Type{}, err
			}
			components[i] = Component{Name: t.TupleRawNames[i], Type: ct}
		}
		return TupleType(components...), nil
	}
	return Type{}, fmt.Errorf("%w: %s", ErrInvalidType, t.String())
}

// Function returns the function declared under name.
func (i *Interface) Function(name string) (Function, bool) {
	f, ok := i.functions[name]
	return f, ok
}

// Event returns the event declared under name.
func (i *Interface) Event(name string) (Event, bool) {
	e, ok := i.events[name]
	return e, ok
}

// Error returns the custom error declared under name.
func (i *Interface) Error(name string) (Error, bool) {
	e, ok := i.errors[name]
	return e, ok
}

// Errors returns all custom error declarations, sorted by name.
func (i *Interface) Errors() []Error {
	out := make([]Error, 0, len(i.errors))
	for _, name := range slices.Sorted(maps.Keys(i.errors)) {
		out = append(out, i.errors[name])
	}
	return out
}

// EventByID returns the non-anonymous event whose ID is topic.
func (i *Interface) EventByID(topic common.Hash) (Event, bool) {
	for _, e := range i.events {
		if !e.anonymous && e.id == topic {
			return e, true
		}
	}
	return Event{}, false
}

// FunctionBySelector returns the function with the given selector.
func (i *Interface) FunctionBySelector(sel [4]byte) (Function, bool) {
	for _, f := range i.functions {
		if f.selector == sel {
			return f, true
		}
	}
	return Function{}, false
}

// Contract binds an Interface to a deployed address.
type Contract struct {
	address    common.Address
	iface      *Interface
	errs       []Error
	decodeOpts []DecodeOption
}

// ContractOption configures a Contract.
type ContractOption func(*Contract)

// WithContractErrors adds custom errors that calls to the contract may
// revert with but that its ABI doesn't declare, such as errors raised by
// a library or a callee.
func WithContractErrors(errs ...Error) ContractOption {
	return func(c *Contract) {
		c.errs = append(c.errs, errs...)
	}
}

// WithDecodeOptions sets options applied to every decode through the
// contract.
func WithDecodeOptions(opts ...DecodeOption) ContractOption {
	return func(c *Contract) {
		c.decodeOpts = append(c.decodeOpts, opts...)
	}
}

// NewContract creates a Contract wrapper. Custom errors declared in iface
// are recognised in return data automatically.
func NewContract(address common.Address, iface *Interface, opts ...ContractOption) *Contract {
	c := &Contract{
		address: address,
		iface:   iface,
		errs:    iface.Errors(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Interface returns the contract declarations.
func (c *Contract) Interface() *Interface {
	return c.iface
}

// Invoke creates a Call for the named function with the given arguments.
// Arguments can be Go values (converted with ValueOf) or Value types.
func (c *Contract) Invoke(name string, args ...any) (*Call, error) {
	f, ok := c.iface.functions[name]
	if !ok {
		return nil, &MethodNotFoundError{Contract: c.address, Method: name}
	}
	return newCall(c, f, args)
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(name string, args ...any) *Call {
	call, err := c.Invoke(name, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// EncodeCall returns the call data for the named function.
func (c *Contract) EncodeCall(name string, args ...any) ([]byte, error) {
	call, err := c.Invoke(name, args...)
	if err != nil {
		return nil, err
	}
	return call.Data(), nil
}

// DecodeReturn decodes the return data of a call to the named function.
// See Function.DecodeReturn.
func (c *Contract) DecodeReturn(name string, data []byte, opts ...DecodeOption) (Values, *CallFailure, error) {
	f, ok := c.iface.functions[name]
	if !ok {
		return nil, nil, &MethodNotFoundError{Contract: c.address, Method: name}
	}
	return f.DecodeReturn(data, c.decodeOptions(opts)...)
}

// DecodeLog decodes a log emitted by the contract and returns the name of
// the matching event with its members. Anonymous events can't be matched.
func (c *Contract) DecodeLog(log *types.Log, opts ...DecodeOption) (string, Values, error) {
	if len(log.Topics) == 0 {
		return "", nil, fmt.Errorf("%w: log has no topics", ErrTopicMismatch)
	}
	for name, e := range c.iface.events {
		if e.anonymous || e.id != log.Topics[0] {
			continue
		}
		values, err := e.DecodeLog(log.Topics, log.Data, c.decodeOptions(opts)...)
		if err != nil {
			return "", nil, err
		}
		return name, values, nil
	}
	return "", nil, &MethodNotFoundError{Contract: c.address, Method: log.Topics[0].Hex()}
}

// HasMethod returns true if the contract has a function with the given name.
func (c *Contract) HasMethod(name string) bool {
	_, ok := c.iface.functions[name]
	return ok
}

// MethodNames returns all function names in the contract, sorted.
func (c *Contract) MethodNames() []string {
	return slices.Sorted(maps.Keys(c.iface.functions))
}

// decodeOptions puts the contract's errors and options ahead of the
// per-call opts, so per-call options win.
func (c *Contract) decodeOptions(opts []DecodeOption) []DecodeOption {
	out := make([]DecodeOption, 0, len(c.decodeOpts)+len(opts)+1)
	out = append(out, WithErrors(c.errs...))
	out = append(out, c.decodeOpts...)
	return append(out, opts...)
}
