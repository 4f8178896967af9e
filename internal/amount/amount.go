// Package amount holds the fixed-point helpers used for token quantities.
// Reserves and deposit amounts are kept as base-10 strings and converted to
// integers scaled by the token decimals before any arithmetic.
package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var ten = big.NewInt(10)

// Parse reads a user-entered amount. Empty or unparseable input yields
// zero and false.
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsPositive reports whether s parses to a value greater than zero.
func IsPositive(s string) bool {
	d, ok := Parse(s)
	return ok && d.IsPositive()
}

// ToScaled converts a decimal string into base units. Extra fraction
// digits beyond decimals are truncated.
func ToScaled(s string, decimals uint8) (*big.Int, error) {
	d, ok := Parse(s)
	if !ok {
		return nil, fmt.Errorf("parse amount %q", s)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FromScaled renders base units as a decimal string with the full
// precision of decimals.
func FromScaled(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if sign < 0 {
		return "-" + text
	}
	return text
}

// Fixed rescales base units from one precision to another and renders the
// result with exactly places fraction digits.
func Fixed(value *big.Int, decimals uint8, places int32) string {
	if value == nil {
		return decimal.Zero.StringFixed(places)
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).Truncate(places).StringFixed(places)
}

// MulDiv returns a*num/den, truncated. A zero denominator yields zero.
func MulDiv(a, num, den *big.Int) *big.Int {
	if a == nil || num == nil || den == nil || den.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(a, num)
	return out.Quo(out, den)
}

// FromFloat renders a float quantity with a fixed number of fraction digits.
func FromFloat(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
