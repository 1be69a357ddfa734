package solabi

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Multicall3Address is the Multicall3 deployment address shared by most
// EVM chains.
var Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

var (
	tryAggregateFn = MustParseFunction("function tryAggregate(bool requireSuccess, (address target, bytes callData)[] calls) payable returns ((bool success, bytes returnData)[] returnData)")
	aggregateFn    = MustParseFunction("function aggregate((address target, bytes callData)[] calls) payable returns (uint256 blockNumber, bytes[] returnData)")
)

// Batch collects calls to be executed in one eth_call through Multicall3.
// The results are decoded against the declaration of each call.
type Batch struct {
	calls []*Call
	cfg   *batchConfig
}

// NewBatch creates an empty Batch with the given options.
func NewBatch(opts ...BatchOption) *Batch {
	b := &Batch{
		calls: make([]*Call, 0, 16),
		cfg:   defaultBatchConfig(),
	}
	for _, opt := range opts {
		opt(b.cfg)
	}
	return b
}

// Add adds a call to the batch and returns its index in the results.
func (b *Batch) Add(call *Call) int {
	b.calls = append(b.calls, call)
	return len(b.calls) - 1
}

// Len returns the number of calls in the batch.
func (b *Batch) Len() int {
	return len(b.calls)
}

// CallAt returns the call at the given index.
func (b *Batch) CallAt(i int) *Call {
	if i < 0 || i >= len(b.calls) {
		return nil
	}
	return b.calls[i]
}

// ForEachCall iterates over all calls in the batch.
// The callback receives the index and call. Return false to stop iteration.
func (b *Batch) ForEachCall(fn func(int, *Call) bool) {
	for i, call := range b.calls {
		if !fn(i, call) {
			return
		}
	}
}

// Function returns the Multicall3 function the batch calls.
func (b *Batch) Function() Function {
	if b.cfg.requireSuccess {
		return aggregateFn
	}
	return tryAggregateFn
}

// Encode returns the Multicall3 call data for the batch.
func (b *Batch) Encode() ([]byte, error) {
	if len(b.calls) == 0 {
		return nil, ErrBatchEmpty
	}
	entries := make(SequenceValue, len(b.calls))
	for i, call := range b.calls {
		if v := call.EthValue(); v != nil && v.Sign() > 0 {
			return nil, &BatchError{CallIndex: i, Method: call.function.name, Err: ErrNotPayable}
		}
		entries[i] = Tuple(Address(call.To()), Bytes(call.data))
	}
	if b.cfg.requireSuccess {
		return aggregateFn.EncodeCall(entries)
	}
	return tryAggregateFn.EncodeCall(Bool(false), entries)
}

// Msg returns the batch as an ethereum.CallMsg from the given sender.
func (b *Batch) Msg(from common.Address) (ethereum.CallMsg, error) {
	data, err := b.Encode()
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	to := b.cfg.multicall
	return ethereum.CallMsg{From: from, To: &to, Data: data}, nil
}

// CallResult is the decoded outcome of one call of a batch. A successful
// call has Success and Values set; otherwise exactly one of Failure and
// Err is set.
type CallResult struct {
	Success bool
	Values  Values
	Failure *CallFailure
	Err     error
}

// BatchResult holds the decoded results of a batch, in the order the
// calls were added.
type BatchResult struct {
	// BlockNumber is set when the batch used aggregate.
	BlockNumber *big.Int
	Results     []CallResult
}

// Decode decodes the return data of the Multicall3 call. Each inner
// result is decoded against the outputs of the function that produced
// it, recognising the custom errors of its contract. A failure of the
// Multicall3 call itself is returned as a *RevertError.
func (b *Batch) Decode(data []byte) (*BatchResult, error) {
	fn := b.Function()
	outer, failure, err := fn.DecodeReturn(data, b.cfg.decodeOpts...)
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure.Err()
	}

	raw, _ := outer["returnData"].([]any)
	if len(raw) != len(b.calls) {
		return nil, fmt.Errorf("%w: got %d results for %d calls", ErrBatchResultCount, len(raw), len(b.calls))
	}

	res := &BatchResult{Results: make([]CallResult, len(raw))}
	if b.cfg.requireSuccess {
		res.BlockNumber, _ = outer["blockNumber"].(*big.Int)
	}

	logger := newDecodeConfig(b.cfg.decodeOpts).logger
	for i, item := range raw {
		var (
			success    = true
			returnData []byte
		)
		switch x := item.(type) {
		case []byte:
			returnData = x
		case Values:
			success, _ = x["success"].(bool)
			returnData, _ = x["returnData"].([]byte)
		}
		r := b.decodeResult(i, success, returnData)
		if r.Err != nil {
			logger.Debug("Could not decode batch result", "index", i, "function", b.calls[i].function.sig, "err", r.Err)
		}
		res.Results[i] = r
	}
	return res, nil
}

func (b *Batch) decodeResult(i int, success bool, data []byte) CallResult {
	call := b.calls[i]
	opts := call.contract.decodeOptions(b.cfg.decodeOpts)
	if !success {
		failure := DecodeFailure(call.function.outputs, data, opts...)
		if failure == nil {
			failure = &CallFailure{Reason: ReasonReverted}
		}
		return CallResult{Failure: failure}
	}
	values, failure, err := call.function.DecodeReturn(data, opts...)
	switch {
	case err != nil:
		return CallResult{Err: &BatchError{CallIndex: i, Method: call.function.name, Err: err}}
	case failure != nil:
		return CallResult{Failure: failure}
	}
	return CallResult{Success: true, Values: values}
}
