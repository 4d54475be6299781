// Package utils provides currency conversion helpers shared by the client
// and the API mock.
package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SatoshisPerUnit is the number of indivisible units in one whole asset,
// for divisible assets on the settlement chain.
const SatoshisPerUnit = 100000000

// BalancePrecision is the number of fractional digits carried by balance
// arithmetic.
const BalancePrecision = 8

var satoshisPerUnit = decimal.NewFromInt(SatoshisPerUnit)

// ValueToSatoshis converts a float-style quantity to satoshis.
func ValueToSatoshis(value decimal.Decimal) int64 {
	return value.Mul(satoshisPerUnit).Round(0).IntPart()
}

// SatoshisToValue converts a satoshi quantity to a float-style value.
func SatoshisToValue(satoshis int64) decimal.Decimal {
	return decimal.NewFromInt(satoshis).Div(satoshisPerUnit)
}

// RoundBalance rounds a quantity to the precision used by balance
// arithmetic.
func RoundBalance(value decimal.Decimal) decimal.Decimal {
	return value.Round(BalancePrecision)
}

// ParseQuantity parses a quantity from a JSON-decoded value: a number, a
// numeric string, or a decimal already in hand.
func ParseQuantity(v any) (decimal.Decimal, error) {
	switch q := v.(type) {
	case decimal.Decimal:
		return q, nil
	case float64:
		return decimal.NewFromFloat(q), nil
	case int:
		return decimal.NewFromInt(int64(q)), nil
	case int64:
		return decimal.NewFromInt(q), nil
	case string:
		d, err := decimal.NewFromString(q)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid quantity %q: %w", q, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid quantity type %T", v)
	}
}
