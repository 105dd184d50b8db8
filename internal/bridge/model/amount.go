package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AmountLength is the width of an on-chain transfer amount (uint128).
const AmountLength = 16

// Amount is a big-endian unsigned 128-bit value.
type Amount [AmountLength]byte

// AmountFromBig converts v, failing when it is negative or wider than 128 bits.
func AmountFromBig(v *big.Int) (Amount, error) {
	var a Amount
	if v == nil || v.Sign() < 0 {
		return a, fmt.Errorf("amount must be non-negative")
	}
	if v.BitLen() > AmountLength*8 {
		return a, fmt.Errorf("amount %s exceeds 128 bits", v)
	}
	v.FillBytes(a[:])
	return a, nil
}

// AmountFromUint64 widens v.
func AmountFromUint64(v uint64) Amount {
	a, _ := AmountFromBig(new(big.Int).SetUint64(v))
	return a
}

// Big returns the amount as a big integer.
func (a Amount) Big() *big.Int {
	return new(big.Int).SetBytes(a[:])
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a == Amount{}
}

// String renders the amount in decimal.
func (a Amount) String() string {
	return a.Big().String()
}

// MarshalText encodes the amount as fixed-width hex.
func (a Amount) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText decodes fixed-width hex.
func (a *Amount) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Amount", input, a[:])
}
