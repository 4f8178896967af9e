package price

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusSwap/internal/model"
)

func TestStaticSourceQuote(t *testing.T) {
	src := NewStaticSource()
	eth := model.Token{Symbol: "ETH", Decimals: 18}
	usdc := model.Token{Symbol: "USDC", Decimals: 6}
	unknown := model.Token{Symbol: "FOO"}

	t.Run("eth to usdc", func(t *testing.T) {
		rate, err := src.Quote(context.Background(), Pair{In: eth, Out: usdc})
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(3500)), rate.String())
	})

	t.Run("unknown symbol prices as one", func(t *testing.T) {
		rate, err := src.Quote(context.Background(), Pair{In: unknown, Out: usdc})
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := src.Quote(ctx, Pair{In: eth, Out: usdc})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRandomImpactBounds(t *testing.T) {
	impact := RandomImpact(rand.New(rand.NewSource(7)))
	for i := 0; i < 1000; i++ {
		v := impact(Pair{}, decimal.NewFromInt(1))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 2.0)
	}
}
