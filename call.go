package solabi

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Call is an encoded call of a contract function.
// Call is immutable - modifier methods return new instances.
type Call struct {
	contract *Contract
	function Function
	args     []Value
	data     []byte
	value    *big.Int // wei sent with the call
}

// newCall converts the arguments using the function's input types and
// encodes the call data.
func newCall(contract *Contract, f Function, rawArgs []any) (*Call, error) {
	args, err := convertArgs(f.name, f.inputs, rawArgs)
	if err != nil {
		return nil, err
	}
	data, err := f.EncodeCall(args...)
	if err != nil {
		return nil, err
	}
	return &Call{
		contract: contract,
		function: f,
		args:     args,
		data:     data,
	}, nil
}

// Contract returns the target contract for this call.
func (c *Call) Contract() *Contract {
	return c.contract
}

// To returns the address of the target contract.
func (c *Call) To() common.Address {
	return c.contract.address
}

// Function returns the declaration of the called function.
func (c *Call) Function() Function {
	return c.function
}

// Args returns a copy of the arguments for this call.
func (c *Call) Args() []Value {
	args := make([]Value, len(c.args))
	copy(args, c.args)
	return args
}

// Data returns a copy of the call data: selector followed by the encoded
// arguments.
func (c *Call) Data() []byte {
	return common.CopyBytes(c.data)
}

// DataHex returns the call data as 0x-prefixed hex.
func (c *Call) DataHex() string {
	return hexutil.Encode(c.data)
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	return c.function.selector
}

// EthValue returns the wei sent with this call (nil if none).
func (c *Call) EthValue() *big.Int {
	return c.value
}

// HasReturnValue returns true if the function declares outputs.
func (c *Call) HasReturnValue() bool {
	return len(c.function.outputs) > 0
}

// WithValue attaches wei to the call.
// Only valid for payable functions.
//
// Returns a new Call with the value set.
func (c *Call) WithValue(amount *big.Int) (*Call, error) {
	if amount.Sign() > 0 && !c.function.payable {
		return nil, ErrNotPayable
	}
	clone := c.clone()
	clone.value = new(big.Int).Set(amount)
	return clone, nil
}

// Msg returns the call as an ethereum.CallMsg from the given sender,
// ready for eth_call or gas estimation.
func (c *Call) Msg(from common.Address) ethereum.CallMsg {
	to := c.contract.address
	msg := ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: c.Data(),
	}
	if c.value != nil {
		msg.Value = new(big.Int).Set(c.value)
	}
	return msg
}

// DecodeReturn decodes the return data of this call, recognising the
// contract's custom errors. See Function.DecodeReturn.
func (c *Call) DecodeReturn(data []byte, opts ...DecodeOption) (Values, *CallFailure, error) {
	return c.function.DecodeReturn(data, c.contract.decodeOptions(opts)...)
}

// clone creates a shallow copy of the Call.
func (c *Call) clone() *Call {
	clone := *c
	clone.args = make([]Value, len(c.args))
	copy(clone.args, c.args)
	clone.data = common.CopyBytes(c.data)
	return &clone
}
