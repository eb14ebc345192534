// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amount holds the integer arithmetic shared by the group builder
// and the on-chain validator. Nothing here rounds through floating point.
package amount

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/dumbly-labs/taxvm/consts"
)

// Plan describes how a treasury amount is distributed.
type Plan struct {
	Burn    uint64 `json:"burn"`
	Rewards uint64 `json:"rewards"`
	LP      uint64 `json:"lp"`
}

// Total returns the sum of every destination of p.
func (p Plan) Total() (uint64, error) {
	return Sum(p.Burn, p.Rewards, p.LP)
}

// IsZero reports whether p moves nothing.
func (p Plan) IsZero() bool {
	return p.Burn == 0 && p.Rewards == 0 && p.LP == 0
}

// Tax applies the fixed network tax rate to [total].
func Tax(total uint64) (uint64, uint64, error) {
	return TaxAt(total, consts.TaxRatePercent)
}

// TaxAt returns floor(total * percent / 100) and the remainder of [total].
func TaxAt(total uint64, percent uint64) (tax uint64, net uint64, err error) {
	if percent > consts.PercentBase {
		return 0, 0, fmt.Errorf("%w: tax rate %d exceeds %d", ErrInvalidAmount, percent, consts.PercentBase)
	}
	scaled, err := smath.Mul64(total, percent)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %d * %d overflows", ErrInvalidAmount, total, percent)
	}
	tax = scaled / consts.PercentBase
	return tax, total - tax, nil
}

// Split divides [total] into SplitWays parts. Burn and rewards receive
// floor(total / 3) and LP receives whatever remains, so the parts always sum
// to [total].
func Split(total uint64) Plan {
	part := total / consts.SplitWays
	return Plan{
		Burn:    part,
		Rewards: part,
		LP:      total - 2*part,
	}
}

// Sum adds [values] and errors on overflow.
func Sum(values ...uint64) (uint64, error) {
	var (
		total uint64
		err   error
	)
	for _, v := range values {
		total, err = smath.Add64(total, v)
		if err != nil {
			return 0, fmt.Errorf("%w: sum overflows", ErrInvalidAmount)
		}
	}
	return total, nil
}

// FromInt64 converts a signed amount, rejecting negative values.
func FromInt64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidAmount, v)
	}
	return uint64(v), nil
}

// ParseJSON converts a JSON number to an amount. Only non-negative integers
// that fit in a uint64 are accepted.
func ParseJSON(n json.Number) (uint64, error) {
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, n)
	}
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, n)
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, n)
	}
	return v.Uint64(), nil
}

// Format renders base units as a decimal string with [decimals] places.
func Format(v uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(v), -int32(decimals))
	return d.StringFixed(int32(decimals))
}

// Parse converts a decimal string into base units. Values with more
// precision than [decimals] are rejected instead of rounded.
func Parse(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%w: %s overflows", ErrInvalidAmount, s)
	}
	return bi.Uint64(), nil
}
