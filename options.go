package solabi

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// DecodeOption configures decoding and failure classification.
type DecodeOption func(*decodeConfig)

// decodeConfig holds configuration for Decode, DecodeReturn and DecodeFailure.
type decodeConfig struct {
	strict       bool
	customErrors map[[4]byte]Error
	logger       log.Logger
}

// newDecodeConfig returns the default configuration with opts applied.
func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	cfg := &decodeConfig{
		logger: log.Root(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithStrictDecoding rejects input that a lenient reader would clean up:
// integers outside their bit window, bools other than 0 and 1, non-zero
// padding around addresses, fixed bytes and dynamic bytes.
// Default is lenient.
func WithStrictDecoding() DecodeOption {
	return func(c *decodeConfig) {
		c.strict = true
	}
}

// WithCustomErrors registers custom error declarations keyed by their
// hex selector, with or without a 0x prefix. Keys that are not exactly
// four bytes of hex are ignored.
func WithCustomErrors(errs map[string]Error) DecodeOption {
	return func(c *decodeConfig) {
		for key, e := range errs {
			key = strings.TrimSpace(key)
			if !has0xPrefix(key) {
				key = "0x" + key
			}
			b, err := hexutil.Decode(key)
			if err != nil || len(b) != 4 {
				continue
			}
			c.addError([4]byte(b), e)
		}
	}
}

// WithErrors registers custom error declarations under their own selectors.
func WithErrors(errs ...Error) DecodeOption {
	return func(c *decodeConfig) {
		for _, e := range errs {
			c.addError(e.Selector(), e)
		}
	}
}

// WithLogger sets the logger used for debug records on classification
// side paths. Default is log.Root().
func WithLogger(logger log.Logger) DecodeOption {
	return func(c *decodeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func (c *decodeConfig) addError(sel [4]byte, e Error) {
	if c.customErrors == nil {
		c.customErrors = make(map[[4]byte]Error)
	}
	c.customErrors[sel] = e
}

// BatchOption configures a Batch.
type BatchOption func(*batchConfig)

// batchConfig holds configuration for a Batch.
type batchConfig struct {
	requireSuccess bool
	multicall      common.Address
	decodeOpts     []DecodeOption
}

// defaultBatchConfig returns the default batch configuration.
func defaultBatchConfig() *batchConfig {
	return &batchConfig{
		multicall: Multicall3Address,
	}
}

// WithRequireSuccess makes the whole batch revert when any call fails,
// using aggregate instead of tryAggregate. Default is false.
func WithRequireSuccess(require bool) BatchOption {
	return func(c *batchConfig) {
		c.requireSuccess = require
	}
}

// WithMulticallAddress sets the Multicall3 deployment to call.
// Default is Multicall3Address.
func WithMulticallAddress(address common.Address) BatchOption {
	return func(c *batchConfig) {
		c.multicall = address
	}
}

// WithBatchDecodeOptions sets options applied when decoding the results
// of every call in the batch.
func WithBatchDecodeOptions(opts ...DecodeOption) BatchOption {
	return func(c *batchConfig) {
		c.decodeOpts = append(c.decodeOpts, opts...)
	}
}
