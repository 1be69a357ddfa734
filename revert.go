package solabi

import (
	"fmt"
	"math/big"
	"strings"
)

var (
	// RevertSelector is the selector of Error(string), used by revert("...")
	// and require(cond, "...").
	RevertSelector = selectorOf("Error(string)")

	// PanicSelector is the selector of Panic(uint256), used by assert and
	// compiler-inserted checks.
	PanicSelector = selectorOf("Panic(uint256)")
)

// Reasons attached to a CallFailure.
const (
	ReasonEmptyResponse = "empty response from a function with declared outputs"
	ReasonReverted      = "execution reverted"
	ReasonPanicked      = "execution panicked"
	ReasonCustomError   = "execution reverted with custom error"
)

// panicReasons maps Solidity panic codes to readable descriptions.
// https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
var panicReasons = map[uint64]string{
	0x00: "generic panic",
	0x01: "assert(false)",
	0x11: "arithmetic underflow or overflow",
	0x12: "division or modulo by zero",
	0x21: "enum overflow",
	0x22: "invalid encoded storage byte array accessed",
	0x31: "out-of-bounds array access; popping on an empty array",
	0x32: "out-of-bounds access of an array or bytesN",
	0x41: "out of memory",
	0x51: "uninitialized function",
}

// CallFailure describes a contract call that did not succeed. It is a
// successful decode of failure data, not a codec error.
type CallFailure struct {
	// Success is always false; it mirrors the shape of a call result.
	Success bool

	// AbortedByRevertOrRequire is set when the contract returned revert
	// data: Error(string), Panic(uint256) or a known custom error.
	AbortedByRevertOrRequire bool

	// Reason is a generic description of the failure.
	Reason string

	// Message is the Error(string) message or the panic description.
	Message string

	// PanicCode is set for Panic(uint256) failures.
	PanicCode *big.Int

	// Error is the matched custom error with parameter names,
	// e.g. Unauthorized(string message_arg).
	Error string

	// Args holds the custom error arguments keyed by position and name.
	Args Values

	// ParsingError is set instead of Args when the custom error payload
	// does not fit the declaration.
	ParsingError string
}

func (f *CallFailure) String() string {
	var b strings.Builder
	b.WriteString(f.Reason)
	switch {
	case f.Error != "":
		b.WriteString(": ")
		b.WriteString(f.Error)
		if f.ParsingError != "" {
			fmt.Fprintf(&b, " (%s)", f.ParsingError)
		}
	case f.Message != "":
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	return b.String()
}

// Err returns the failure as an error, for callers that propagate failed
// calls through error returns.
func (f *CallFailure) Err() error {
	return &RevertError{Failure: f}
}

// RevertError carries a CallFailure through an error return.
type RevertError struct {
	Failure *CallFailure
}

func (e *RevertError) Error() string {
	return "solabi: call failed: " + e.Failure.String()
}

// DecodeFailure classifies call return data against the function's
// declared outputs. It never fails: data that matches no failure pattern
// yields nil and should be decoded normally. Precedence:
//
//  1. no outputs and no data: ambiguous, nil (a void success and a bare
//     revert() look the same)
//  2. outputs but no data: failure with ReasonEmptyResponse
//  3. Error(string) whose payload decodes as a string: revert message
//  4. Panic(uint256) whose payload decodes as a uint256: panic code
//  5. a selector registered with WithCustomErrors/WithErrors: custom
//     error, with Args or ParsingError
//  6. anything else: nil
func DecodeFailure(outputs []Parameter, data []byte, opts ...DecodeOption) *CallFailure {
	cfg := newDecodeConfig(opts)
	d := &decoder{strict: cfg.strict}

	switch {
	case len(data) == 0 && len(outputs) == 0:
		return nil
	case len(data) == 0:
		return &CallFailure{Reason: ReasonEmptyResponse}
	case len(data) < 4:
		return nil
	}

	sel := [4]byte(data[:4])
	payload := data[4:]

	switch {
	case sel == RevertSelector:
		if vals, err := d.decodeList(func(int) Type { return StringType }, 1, payload); err == nil {
			return &CallFailure{
				AbortedByRevertOrRequire: true,
				Reason:                   ReasonReverted,
				Message:                  vals[0].(string),
			}
		}
	case sel == PanicSelector:
		if vals, err := d.decodeList(func(int) Type { return Uint256 }, 1, payload); err == nil {
			code := vals[0].(*big.Int)
			return &CallFailure{
				AbortedByRevertOrRequire: true,
				Reason:                   ReasonPanicked,
				Message:                  panicReason(code),
				PanicCode:                code,
			}
		}
	}

	decl, ok := cfg.customErrors[sel]
	if !ok {
		return nil
	}
	failure := &CallFailure{
		AbortedByRevertOrRequire: true,
		Reason:                   ReasonCustomError,
		Error:                    decl.String(),
	}
	inputs := decl.inputs
	members, err := d.decodeList(func(i int) Type { return inputs[i].Type }, len(inputs), payload)
	if err != nil {
		cfg.logger.Debug("Custom error payload does not match declaration", "error", decl.Signature(), "err", err)
		failure.ParsingError = err.Error()
		return failure
	}
	failure.Args = newValues(func(i int) string { return inputs[i].Name }, members)
	return failure
}

func panicReason(code *big.Int) string {
	if code.IsUint64() {
		if reason, ok := panicReasons[code.Uint64()]; ok {
			return reason
		}
	}
	return fmt.Sprintf("unknown panic code: %#x", code)
}
