package pool

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/model"
)

// Side selects one token of a pool.
type Side int

const (
	Side0 Side = iota
	Side1
)

// RemovalEpsilon is the share (percent) below which a position is dropped.
const RemovalEpsilon = 0.001

// CoupledAmount returns the amount of the opposite token that keeps a
// deposit of value on side proportional to the pool reserves. The result
// has six fraction digits.
func CoupledAmount(p model.Pool, side Side, value string) (string, error) {
	fromTok, toTok := p.Token0, p.Token1
	fromReserve, toReserve := p.Reserve0, p.Reserve1
	if side == Side1 {
		fromTok, toTok = toTok, fromTok
		fromReserve, toReserve = toReserve, fromReserve
	}

	in, err := amount.ToScaled(value, fromTok.Decimals)
	if err != nil {
		return "", err
	}
	rFrom, err := amount.ToScaled(fromReserve, fromTok.Decimals)
	if err != nil {
		return "", fmt.Errorf("parse reserve of %s: %w", fromTok.Symbol, err)
	}
	rTo, err := amount.ToScaled(toReserve, toTok.Decimals)
	if err != nil {
		return "", fmt.Errorf("parse reserve of %s: %w", toTok.Symbol, err)
	}
	if rFrom.Sign() == 0 {
		return "", fmt.Errorf("pool %s has empty %s reserve", p.ID, fromTok.Symbol)
	}
	return amount.Fixed(amount.MulDiv(in, rTo, rFrom), toTok.Decimals, displayPlaces), nil
}

// ValidDeposit reports whether both amounts are positive and covered by
// the respective balances.
func ValidDeposit(amount0, amount1, balance0, balance1 string) bool {
	a0, ok0 := amount.Parse(amount0)
	a1, ok1 := amount.Parse(amount1)
	if !ok0 || !ok1 || !a0.IsPositive() || !a1.IsPositive() {
		return false
	}
	b0, _ := amount.Parse(balance0)
	b1, _ := amount.Parse(balance1)
	return a0.LessThanOrEqual(b0) && a1.LessThanOrEqual(b1)
}

// ShareOfPool is the percentage of the pool a deposit of amount0 would own.
func ShareOfPool(p model.Pool, amount0 string) float64 {
	a0, ok := amount.Parse(amount0)
	if !ok || !a0.IsPositive() {
		return 0
	}
	r0, ok := amount.Parse(p.Reserve0)
	if !ok {
		return 0
	}
	return a0.Div(r0.Add(a0)).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// LPTokensToReceive estimates the LP tokens minted for amount0.
func LPTokensToReceive(p model.Pool, amount0 string) string {
	a0, err := amount.ToScaled(amount0, p.Token0.Decimals)
	if err != nil || a0.Sign() <= 0 {
		return decimal.Zero.StringFixed(displayPlaces)
	}
	r0, err := amount.ToScaled(p.Reserve0, p.Token0.Decimals)
	if err != nil {
		return decimal.Zero.StringFixed(displayPlaces)
	}
	supply, err := amount.ToScaled(p.TotalSupply, lpDecimals)
	if err != nil {
		return decimal.Zero.StringFixed(displayPlaces)
	}
	return amount.Fixed(amount.MulDiv(a0, supply, r0), lpDecimals, displayPlaces)
}

// ApplyRemoval withdraws pct percent of every position in poolID. Positions
// whose remaining share falls under RemovalEpsilon are dropped. The input
// slice is not modified.
func ApplyRemoval(positions []model.LiquidityPosition, poolID string, pct float64) ([]model.LiquidityPosition, error) {
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("remove %.2f%%: %w", pct, ErrInvalidPercentage)
	}
	keep := 1 - pct/100
	keepNum := decimal.NewFromFloat(keep).Shift(lpDecimals).Truncate(0).BigInt()

	out := make([]model.LiquidityPosition, 0, len(positions))
	for _, pos := range positions {
		if pos.PoolID != poolID {
			out = append(out, pos)
			continue
		}
		remaining := pos.Share * keep
		if remaining < RemovalEpsilon {
			continue
		}
		pos.Share = remaining
		pos.ValueUSD *= keep
		pos.Amount0 = scaleString(pos.Amount0, pos.Token0.Decimals, keepNum, displayPlaces)
		pos.Amount1 = scaleString(pos.Amount1, pos.Token1.Decimals, keepNum, displayPlaces)
		pos.LPTokens = scaleString(pos.LPTokens, lpDecimals, keepNum, lpDecimals)
		out = append(out, pos)
	}
	return out, nil
}

func scaleString(value string, decimals uint8, num *big.Int, places int32) string {
	v, err := amount.ToScaled(value, decimals)
	if err != nil {
		return value
	}
	return amount.Fixed(amount.MulDiv(v, num, shareScale), decimals, places)
}
