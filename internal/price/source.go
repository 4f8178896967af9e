package price

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"nexusSwap/internal/model"
)

// Pair is an ordered trade direction.
type Pair struct {
	In  model.Token
	Out model.Token
}

// Source quotes how many output units one input unit buys.
type Source interface {
	Quote(ctx context.Context, pair Pair) (decimal.Decimal, error)
}

var usdPrices = map[string]decimal.Decimal{
	"ETH":   decimal.NewFromInt(3500),
	"WETH":  decimal.NewFromInt(3500),
	"BNB":   decimal.NewFromInt(600),
	"WBNB":  decimal.NewFromInt(600),
	"MATIC": decimal.RequireFromString("0.8"),
	"USDC":  decimal.NewFromInt(1),
	"USDT":  decimal.NewFromInt(1),
	"DAI":   decimal.NewFromInt(1),
	"WBTC":  decimal.NewFromInt(65000),
	"BTCB":  decimal.NewFromInt(65000),
}

// StaticSource prices pairs from a fixed USD table keyed by symbol.
// Symbols missing from the table are priced at 1.
type StaticSource struct{}

func NewStaticSource() StaticSource {
	return StaticSource{}
}

// USD returns the table price of symbol.
func (StaticSource) USD(symbol string) decimal.Decimal {
	if p, ok := usdPrices[symbol]; ok {
		return p
	}
	return decimal.NewFromInt(1)
}

func (s StaticSource) Quote(ctx context.Context, pair Pair) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("quote %s/%s: %w", pair.In.Symbol, pair.Out.Symbol, err)
	}
	return s.USD(pair.In.Symbol).Div(s.USD(pair.Out.Symbol)), nil
}

// ImpactModel estimates the price impact, in percent, of trading
// amountIn through pair.
type ImpactModel func(pair Pair, amountIn decimal.Decimal) float64

// RandomImpact draws an impact uniformly from [0, 2) regardless of trade
// size. It stands in for a depth-based curve; no reserve state is consulted.
func RandomImpact(r *rand.Rand) ImpactModel {
	var mu sync.Mutex
	return func(Pair, decimal.Decimal) float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64() * 2
	}
}

// FixedImpact always reports impact.
func FixedImpact(impact float64) ImpactModel {
	return func(Pair, decimal.Decimal) float64 {
		return impact
	}
}
