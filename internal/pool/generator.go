package pool

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/chains"
	"nexusSwap/internal/model"
)

const (
	volatileFeeRate = 0.003
	stableFeeRate   = 0.0005
	noPositionsBias = 0.7
	lpDecimals      = 18
	displayPlaces   = 6
)

var shareScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(lpDecimals), nil)

// MockSource synthesizes pools and positions from a random stream. It
// implements both ReserveSource and PositionSource.
type MockSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewMockSource(r *rand.Rand) *MockSource {
	return &MockSource{r: r}
}

func (m *MockSource) float() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Float64()
}

func (m *MockSource) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Intn(n)
}

// PoolsFor pairs the native token with the first three popular tokens and
// adds one stablecoin pool. Pools are sorted by TVL, largest first.
func (m *MockSource) PoolsFor(ctx context.Context, chainID uint64) ([]model.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := chains.TokensForChain(chainID)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("generate pools for chain %d: %w", chainID, ErrUnsupportedChain)
	}

	native := tokens[0]
	end := 4
	if len(tokens) < end {
		end = len(tokens)
	}
	pools := make([]model.Pool, 0, end)
	for i, tok := range tokens[1:end] {
		tvl := 10_000_000 + m.float()*50_000_000
		volume := tvl * (0.05 + m.float()*0.15)
		fees := volume * volatileFeeRate
		apr := math.Min(fees*365/tvl*100*100, model.MaxAPR)

		half := decimal.NewFromFloat(tvl).Div(decimal.NewFromInt(2))
		pools = append(pools, model.Pool{
			ID:          poolID(chainID, native, tok),
			Token0:      native,
			Token1:      tok,
			Reserve0:    half.Div(decimal.NewFromInt(int64(i + 1))).StringFixed(18),
			Reserve1:    half.StringFixed(6),
			TotalSupply: decimal.NewFromFloat(tvl / 100).StringFixed(18),
			TVL:         tvl,
			Volume24h:   volume,
			Fees24h:     fees,
			APR:         apr,
		})
	}

	if len(tokens) > 3 {
		usdc := findSymbol(tokens, "USDC", 2)
		usdt := findSymbol(tokens, "USDT", 3)

		tvl := 50_000_000 + m.float()*100_000_000
		volume := tvl * (0.1 + m.float()*0.2)
		fees := volume * stableFeeRate
		half := decimal.NewFromFloat(tvl).Div(decimal.NewFromInt(2)).StringFixed(6)
		pools = append(pools, model.Pool{
			ID:          poolID(chainID, usdc, usdt),
			Token0:      usdc,
			Token1:      usdt,
			Reserve0:    half,
			Reserve1:    half,
			TotalSupply: decimal.NewFromFloat(tvl / 100).StringFixed(18),
			TVL:         tvl,
			Volume24h:   volume,
			Fees24h:     fees,
			APR:         math.Min(fees*365/tvl*100, model.MaxAPR),
		})
	}

	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].TVL > pools[j].TVL
	})
	return pools, nil
}

// PositionsFor gives most addresses no positions. Otherwise it returns one
// to three positions in the leading pools with a share in [0.1%, 1.1%).
func (m *MockSource) PositionsFor(ctx context.Context, address string, pools []model.Pool) ([]model.LiquidityPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, ErrAddressRequired
	}
	if m.float() < noPositionsBias {
		return nil, nil
	}

	n := m.intn(3) + 1
	if n > len(pools) {
		n = len(pools)
	}
	positions := make([]model.LiquidityPosition, 0, n)
	for _, p := range pools[:n] {
		share := 0.001 + m.float()*0.01
		pos, err := positionFor(p, share)
		if err != nil {
			return nil, fmt.Errorf("position for %s: %w", p.ID, err)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func positionFor(p model.Pool, share float64) (model.LiquidityPosition, error) {
	num := decimal.NewFromFloat(share).Shift(lpDecimals).Truncate(0).BigInt()

	r0, err := amount.ToScaled(p.Reserve0, p.Token0.Decimals)
	if err != nil {
		return model.LiquidityPosition{}, err
	}
	r1, err := amount.ToScaled(p.Reserve1, p.Token1.Decimals)
	if err != nil {
		return model.LiquidityPosition{}, err
	}
	supply, err := amount.ToScaled(p.TotalSupply, lpDecimals)
	if err != nil {
		return model.LiquidityPosition{}, err
	}

	return model.LiquidityPosition{
		PoolID:   p.ID,
		Token0:   p.Token0,
		Token1:   p.Token1,
		Amount0:  amount.Fixed(amount.MulDiv(r0, num, shareScale), p.Token0.Decimals, displayPlaces),
		Amount1:  amount.Fixed(amount.MulDiv(r1, num, shareScale), p.Token1.Decimals, displayPlaces),
		LPTokens: amount.FromScaled(amount.MulDiv(supply, num, shareScale), lpDecimals),
		Share:    share * 100,
		ValueUSD: p.TVL * share,
	}, nil
}

func poolID(chainID uint64, a, b model.Token) string {
	return fmt.Sprintf("%d-%s-%s", chainID, a.Symbol, b.Symbol)
}

func findSymbol(tokens []model.Token, symbol string, fallback int) model.Token {
	for _, t := range tokens {
		if t.Symbol == symbol {
			return t
		}
	}
	return tokens[fallback]
}
