package solabi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// ToUnsignedBigInt converts v to a non-negative big integer. It accepts Go
// integers of any width, *big.Int, *uint256.Int, *hexutil.Big, raw
// big-endian bytes and decimal or hexadecimal text. Negative values are
// rejected whatever their representation; a byte slice is always read as
// an unsigned magnitude, so a set top bit yields a large positive number.
func ToUnsignedBigInt(v any) (*big.Int, bool) {
	if b, ok := v.([]byte); ok {
		return new(big.Int).SetBytes(b), true
	}
	n, ok := ToSignedBigInt(v)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}

// ToSignedBigInt converts v to a big integer, keeping its sign. It accepts
// the same inputs as ToUnsignedBigInt; a byte slice is read as a
// two's-complement number of len(b)*8 bits. It fails only when v is of an
// unsupported kind or is unparsable text.
func ToSignedBigInt(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	case big.Int:
		return new(big.Int).Set(&n), true
	case *uint256.Int:
		if n == nil {
			return nil, false
		}
		return n.ToBig(), true
	case uint256.Int:
		return n.ToBig(), true
	case *hexutil.Big:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n.ToInt()), true
	case hexutil.Big:
		return new(big.Int).Set(n.ToInt()), true
	case []byte:
		x := new(big.Int).SetBytes(n)
		if len(n) > 0 && n[0]&0x80 != 0 {
			x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(len(n)*8)))
		}
		return x, true
	case string:
		return parseBigInt(n)
	}
	return nil, false
}

// parseBigInt reads decimal, 0x-prefixed hex or bare hex text with an
// optional leading minus sign. Digits must follow the sign and prefix
// directly.
func parseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	base := 10
	if has0xPrefix(s) {
		s = s[2:]
		base = 16
	}
	if s == "" || !isHexDigit(s[0]) {
		return nil, false
	}
	x, ok := new(big.Int).SetString(s, base)
	if !ok && base == 10 {
		x, ok = new(big.Int).SetString(s, 16)
	}
	if !ok {
		return nil, false
	}
	if neg {
		x.Neg(x)
	}
	return x, true
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}
