package swap

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusSwap/internal/chains"
	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

func mustToken(t *testing.T, chainID uint64, symbol string) *model.Token {
	t.Helper()
	tok, ok := chains.TokenBySymbol(chainID, symbol)
	require.True(t, ok, "token %s on chain %d", symbol, chainID)
	return &tok
}

func TestForwardQuoteScenario(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, _ = st.SetInputToken(mustToken(t, 1, "ETH"))
	st, _ = st.SetOutputToken(mustToken(t, 1, "USDC"))
	st, effects := st.SetInputAmount("10")

	require.Len(t, effects, 1)
	assert.True(t, st.IsCalculating)
	assert.Equal(t, Forward, effects[0].Direction)

	res := Calculate(context.Background(), price.NewStaticSource(), price.FixedImpact(0.4), effects[0])
	require.NoError(t, res.Err)
	assert.Equal(t, "10", res.Trade.InputAmount)
	assert.Equal(t, "35000.000000", res.Trade.OutputAmount)
	assert.Equal(t, "0.030000", res.Trade.LiquidityProviderFee)
	assert.Equal(t, 3500.0, res.Trade.Price)
	assert.Equal(t, []string{"ETH", "USDC"}, res.Trade.Route)
	assert.Equal(t, "34825.000000", res.Trade.MinimumReceived)

	st, ok := st.Commit(res)
	require.True(t, ok)
	assert.False(t, st.IsCalculating)
	assert.Equal(t, "35000.000000", st.OutputAmount)
	assert.Equal(t, "10", st.InputAmount)
}

func TestReverseQuote(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, _ = st.SetInputToken(mustToken(t, 1, "ETH"))
	st, _ = st.SetOutputToken(mustToken(t, 1, "USDC"))
	st, effects := st.SetOutputAmount("7000")
	require.Len(t, effects, 1)
	assert.Equal(t, Reverse, effects[0].Direction)

	res := Calculate(context.Background(), price.NewStaticSource(), nil, effects[0])
	require.NoError(t, res.Err)
	assert.Equal(t, "2.000000", res.Trade.InputAmount)
	assert.Equal(t, "7000", res.Trade.OutputAmount)
	assert.Equal(t, "0.006000", res.Trade.LiquidityProviderFee)

	st, ok := st.Commit(res)
	require.True(t, ok)
	assert.Equal(t, "2.000000", st.InputAmount)
	assert.Equal(t, "7000", st.OutputAmount)
}

func TestMinimumReceived(t *testing.T) {
	assert.Equal(t, "99.000000", MinimumReceived(decimal.NewFromInt(100), 1.0))
	assert.Equal(t, "100.000000", MinimumReceived(decimal.NewFromInt(100), 0))
	assert.Equal(t, "50.000000", MinimumReceived(decimal.NewFromInt(100), 50))
}

func TestEmptyAndUnparseableAmounts(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, _ = st.SetInputToken(mustToken(t, 1, "ETH"))
	st, _ = st.SetOutputToken(mustToken(t, 1, "USDC"))

	for _, in := range []string{"0", "abc", "-1", "0.000"} {
		t.Run(in, func(t *testing.T) {
			next, effects := st.SetInputAmount(in)
			assert.Empty(t, effects)
			assert.Nil(t, next.Trade)
			assert.False(t, next.IsCalculating)
			assert.NoError(t, next.QuoteErr)
			assert.Equal(t, in, next.InputAmount)
		})
	}

	t.Run("cleared input clears output", func(t *testing.T) {
		next, _ := st.SetInputAmount("1")
		next.OutputAmount = "3500"
		next, effects := next.SetInputAmount("")
		assert.Empty(t, effects)
		assert.Equal(t, "", next.OutputAmount)
	})

	t.Run("cleared output clears input", func(t *testing.T) {
		next, _ := st.SetOutputAmount("3500")
		next.InputAmount = "1"
		next, effects := next.SetOutputAmount("")
		assert.Empty(t, effects)
		assert.Equal(t, "", next.InputAmount)
	})
}

func TestTokenChangeRequotes(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, effects := st.SetInputAmount("1")
	assert.Empty(t, effects, "no quote without tokens")

	st, effects = st.SetInputToken(mustToken(t, 1, "ETH"))
	assert.Empty(t, effects)

	st, effects = st.SetOutputToken(mustToken(t, 1, "DAI"))
	require.Len(t, effects, 1)
	assert.Equal(t, "DAI", effects[0].Pair.Out.Symbol)
	assert.Equal(t, st.Seq, effects[0].Seq)

	st, effects = st.SetOutputToken(nil)
	assert.Empty(t, effects)
	assert.False(t, st.IsCalculating)
}

func TestSwitchTokensScenario(t *testing.T) {
	eth := mustToken(t, 1, "ETH")
	usdc := mustToken(t, 1, "USDC")
	st := NewState(model.DefaultSwapSettings())
	st.InputToken, st.OutputToken = eth, usdc
	st.InputAmount, st.OutputAmount = "5", "17500"

	st, effects := st.SwitchTokens()
	assert.Equal(t, "USDC", st.InputToken.Symbol)
	assert.Equal(t, "ETH", st.OutputToken.Symbol)
	assert.Equal(t, "17500", st.InputAmount)
	assert.Equal(t, "5", st.OutputAmount)

	require.Len(t, effects, 1)
	assert.Equal(t, Forward, effects[0].Direction)
	assert.Equal(t, "17500", effects[0].Amount)
	assert.Equal(t, "USDC", effects[0].Pair.In.Symbol)

	res := Calculate(context.Background(), price.NewStaticSource(), nil, effects[0])
	st, ok := st.Commit(res)
	require.True(t, ok)
	assert.Equal(t, "5.000000", st.OutputAmount)
}

func TestCommitRejectsStaleResult(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, _ = st.SetInputToken(mustToken(t, 1, "ETH"))
	st, _ = st.SetOutputToken(mustToken(t, 1, "USDC"))
	st, first := st.SetInputAmount("1")
	st, second := st.SetInputAmount("2")

	src := price.NewStaticSource()
	newer := Calculate(context.Background(), src, nil, second[0])
	older := Calculate(context.Background(), src, nil, first[0])

	st, ok := st.Commit(newer)
	require.True(t, ok)
	st, ok = st.Commit(older)
	assert.False(t, ok)
	assert.Equal(t, "2", st.Trade.InputAmount)
	assert.Equal(t, "7000.000000", st.OutputAmount)
}

func TestCommitFailure(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	st, _ = st.SetInputToken(mustToken(t, 1, "ETH"))
	st, _ = st.SetOutputToken(mustToken(t, 1, "USDC"))
	st, effects := st.SetInputAmount("1")

	st, ok := st.Commit(Result{Seq: effects[0].Seq, Err: errors.New("oracle down")})
	require.True(t, ok)
	assert.Nil(t, st.Trade)
	assert.False(t, st.IsCalculating)
	assert.ErrorIs(t, st.QuoteErr, ErrQuoteUnavailable)
}

func TestUpdateSettings(t *testing.T) {
	st := NewState(model.DefaultSwapSettings())
	slip := 1.0
	st, err := st.UpdateSettings(SettingsPatch{SlippageTolerance: &slip})
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.Settings.SlippageTolerance)
	assert.Equal(t, 20, st.Settings.Deadline)

	bad := 51.0
	next, err := st.UpdateSettings(SettingsPatch{SlippageTolerance: &bad})
	assert.Error(t, err)
	assert.Equal(t, 1.0, next.Settings.SlippageTolerance)

	zero := 0
	_, err = st.UpdateSettings(SettingsPatch{Deadline: &zero})
	assert.Error(t, err)

	high := 6.0
	st, err = st.UpdateSettings(SettingsPatch{SlippageTolerance: &high})
	require.NoError(t, err)
	assert.True(t, st.HighSlippage())
}

func TestInitializeTokens(t *testing.T) {
	st, effects := NewState(model.DefaultSwapSettings()).InitializeTokens(137)
	assert.Empty(t, effects)
	require.NotNil(t, st.InputToken)
	require.NotNil(t, st.OutputToken)
	assert.Equal(t, "MATIC", st.InputToken.Symbol)
	assert.Equal(t, "WETH", st.OutputToken.Symbol)

	usdc := mustToken(t, 137, "USDC")
	st.OutputToken = usdc
	st, _ = st.InitializeTokens(137)
	assert.Equal(t, "USDC", st.OutputToken.Symbol)
}

func TestGate(t *testing.T) {
	base := NewState(model.DefaultSwapSettings())
	base.InputToken = mustToken(t, 1, "ETH")
	base.OutputToken = mustToken(t, 1, "USDC")
	base.InputAmount = "2"
	base.Trade = &model.Trade{PriceImpact: 1}

	assert.Equal(t, Button{Label: "Connect Wallet"}, Gate(base, false, "10", false))

	noTokens := base
	noTokens.OutputToken = nil
	assert.Equal(t, "Select Tokens", Gate(noTokens, true, "10", false).Label)

	noAmount := base
	noAmount.InputAmount = "0"
	assert.Equal(t, "Enter Amount", Gate(noAmount, true, "10", false).Label)

	calculating := base
	calculating.IsCalculating = true
	assert.Equal(t, "Calculating...", Gate(calculating, true, "10", false).Label)

	assert.Equal(t, "Swapping...", Gate(base, true, "10", true).Label)

	assert.Equal(t, Button{Label: "Insufficient ETH Balance", Disabled: true}, Gate(base, true, "1", false))

	high := base
	high.Trade = &model.Trade{PriceImpact: 6}
	assert.Equal(t, Button{Label: "Price Impact Too High"}, Gate(high, true, "10", false))

	severe := base
	severe.Trade = &model.Trade{PriceImpact: 16}
	assert.Equal(t, Button{Label: "Price Impact Too High", Disabled: true}, Gate(severe, true, "10", false))
	severe.Settings.ExpertMode = true
	assert.False(t, Gate(severe, true, "10", false).Disabled)

	failed := base
	failed.Trade = nil
	failed.QuoteErr = ErrQuoteUnavailable
	assert.Equal(t, "Quote Unavailable", Gate(failed, true, "10", false).Label)

	noTrade := base
	noTrade.Trade = nil
	assert.Equal(t, Button{Label: "Enter Amount", Disabled: true}, Gate(noTrade, true, "10", false))

	assert.Equal(t, Button{Label: "Swap"}, Gate(base, true, "10", false))
}
