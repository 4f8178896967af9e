package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

const quotePlaces = 6

var hundred = decimal.NewFromInt(100)

// Calculate runs a quote request against src. It never touches store state.
func Calculate(ctx context.Context, src price.Source, impact price.ImpactModel, eff Effect) Result {
	res := Result{Seq: eff.Seq, Direction: eff.Direction}
	trade, err := quote(ctx, src, impact, eff)
	if err != nil {
		res.Err = err
		return res
	}
	res.Trade = trade
	return res
}

func quote(ctx context.Context, src price.Source, impact price.ImpactModel, eff Effect) (*model.Trade, error) {
	driver, ok := amount.Parse(eff.Amount)
	if !ok || !driver.IsPositive() {
		return nil, fmt.Errorf("parse amount %q", eff.Amount)
	}
	rate, err := src.Quote(ctx, eff.Pair)
	if err != nil {
		return nil, fmt.Errorf("fetch rate: %w", err)
	}
	if !rate.IsPositive() {
		return nil, errors.New("rate is not positive")
	}

	var in, out decimal.Decimal
	trade := &model.Trade{
		InputToken:  eff.Pair.In,
		OutputToken: eff.Pair.Out,
		Route:       []string{eff.Pair.In.Symbol, eff.Pair.Out.Symbol},
	}
	switch eff.Direction {
	case Forward:
		in = driver
		out = in.Mul(rate)
		trade.InputAmount = eff.Amount
		trade.OutputAmount = out.StringFixed(quotePlaces)
	case Reverse:
		out = driver
		in = out.Div(rate)
		trade.InputAmount = in.StringFixed(quotePlaces)
		trade.OutputAmount = eff.Amount
	default:
		return nil, fmt.Errorf("unknown direction %d", eff.Direction)
	}

	trade.Price = rate.InexactFloat64()
	if impact != nil {
		trade.PriceImpact = impact(eff.Pair, in)
	}
	trade.MinimumReceived = MinimumReceived(out, eff.Slippage)
	trade.LiquidityProviderFee = in.Mul(model.LiquidityProviderFeeRate).StringFixed(quotePlaces)
	return trade, nil
}

// MinimumReceived applies the slippage tolerance (percent) to out.
func MinimumReceived(out decimal.Decimal, slippage float64) string {
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(slippage).Div(hundred))
	return out.Mul(keep).StringFixed(quotePlaces)
}
