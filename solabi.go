// Package solabi encodes and decodes data in the Solidity contract ABI
// format: call data, return data, revert data and event logs.
//
// It is a pure codec. Nothing in the package performs network I/O; the
// Call and Batch types produce ethereum.CallMsg values for a client to
// send and decode whatever comes back.
//
// # Basic Usage
//
// Declare a function, encode a call and decode its return data:
//
//	transfer := solabi.MustParseFunction("function transfer(address to, uint256 amount) returns (bool)")
//
//	data, err := transfer.Pack(recipient, big.NewInt(1000))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, failure, err := transfer.DecodeReturn(returnData)
//	switch {
//	case err != nil:
//	    // malformed return data
//	case failure != nil:
//	    // the call reverted: failure.Message, failure.Error, failure.Args
//	default:
//	    ok := out["0"].(bool)
//	}
//
// # Contracts
//
// A JSON ABI parsed with ParseABI gives an Interface. NewContract binds it
// to an address; custom errors declared in the ABI are then recognised in
// return data without further configuration:
//
//	token := solabi.NewContract(tokenAddr, solabi.MustParseABI(erc20ABI))
//	call := token.MustInvoke("balanceOf", owner)
//	msg := call.Msg(from) // pass to ethclient.CallContract
//
// # Types and Values
//
// Types are built with the constructors in this package (UintType,
// ArrayType, TupleType, ...) or parsed with ParseType. The encoder takes
// Value variants, which ValueOf derives from ordinary Go values. The
// decoder returns Go natives:
//
//   - *big.Int for every integer width
//   - bool, common.Address, string
//   - []byte for bytes, bytesN and function
//   - []any for arrays
//   - Values for tuples and parameter lists, keyed by position and name
//
// # Failures
//
// DecodeFailure classifies the return data of a failed call: the
// Error(string) revert reason, Panic(uint256) codes and registered custom
// errors. A classified failure is a *CallFailure, never an error; errors
// are reserved for data the codec cannot read.
//
// # Batching
//
// Batch packs calls into one Multicall3 call and decodes each nested result
// against the function that produced it.
//
// # References
//
//   - https://docs.soliditylang.org/en/latest/abi-spec.html
//   - https://github.com/mds1/multicall (Multicall3)
package solabi
