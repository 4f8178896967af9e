package analytics

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTimeframePoints(t *testing.T) {
	cases := map[Timeframe]int{
		Timeframe1H: 60,
		Timeframe1D: 96,
		Timeframe1W: 168,
		Timeframe1M: 120,
		Timeframe1Y: 365,
		"5Y":        96,
	}
	for tf, want := range cases {
		t.Run(string(tf), func(t *testing.T) {
			assert.Equal(t, want, TimeframePoints(tf))
		})
	}
}

func TestBasePrice(t *testing.T) {
	src := price.NewStaticSource()
	assert.InDelta(t, 1.0/3500, BasePrice(src, "ETH", "USDC"), 1e-12)
	assert.InDelta(t, 65000.0/3500, BasePrice(src, "WETH", "WBTC"), 1e-9)
	assert.Equal(t, 1.0, BasePrice(src, "FOO", "BAR"))
}

func TestGeneratePriceSeries(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	series := GeneratePriceSeries(r, 100, 10, 0.02, fixedNow, time.Hour)
	require.Len(t, series, 10)

	assert.Equal(t, fixedNow.UnixMilli(), series[9].Timestamp)
	assert.Equal(t, fixedNow.Add(-9*time.Hour).UnixMilli(), series[0].Timestamp)

	prev := 100.0
	for i, p := range series {
		if i > 0 {
			assert.Greater(t, p.Timestamp, series[i-1].Timestamp)
		}
		step := p.Price/prev - 1
		assert.LessOrEqual(t, step, 0.01+1e-12)
		assert.GreaterOrEqual(t, step, -0.01-1e-12)
		assert.GreaterOrEqual(t, p.Volume, 0.0)
		assert.Less(t, p.Volume, 1_000_000.0)
		prev = p.Price
	}

	assert.Nil(t, GeneratePriceSeries(r, 100, 0, 0.02, fixedNow, time.Hour))
}

func TestSummarize(t *testing.T) {
	series := []model.PricePoint{
		{Timestamp: 1, Price: 100, Volume: 10},
		{Timestamp: 2, Price: 120, Volume: 20},
		{Timestamp: 3, Price: 90, Volume: 30},
		{Timestamp: 4, Price: 110, Volume: 40},
	}
	got := Summarize(series)
	assert.Equal(t, 110.0, got.CurrentPrice)
	assert.InDelta(t, 10.0, got.PriceChange24h, 1e-9)
	assert.Equal(t, 120.0, got.High24h)
	assert.Equal(t, 90.0, got.Low24h)
	assert.Equal(t, 100.0, got.Volume24h)
	assert.Len(t, got.Points, 4)

	empty := Summarize(nil)
	assert.Zero(t, empty.CurrentPrice)
	assert.Zero(t, empty.High24h)
}

func TestPoolHistory(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	h := PoolHistory(r, 30, fixedNow)
	require.Len(t, h.TVL, 30)
	require.Len(t, h.Volume, 30)
	require.Len(t, h.Fees, 30)

	assert.Equal(t, fixedNow.UnixMilli(), h.TVL[29].Timestamp)
	assert.Equal(t, fixedNow.Add(-29*24*time.Hour).UnixMilli(), h.TVL[0].Timestamp)

	for i := range h.TVL {
		tvl := h.TVL[i].Value
		vol := h.Volume[i].Value
		assert.GreaterOrEqual(t, vol, tvl*0.05-1e-6)
		assert.LessOrEqual(t, vol, tvl*0.20+1e-6)
		assert.InDelta(t, vol*0.003, h.Fees[i].Value, 1e-6)
	}

	assert.Empty(t, PoolHistory(r, 0, fixedNow).TVL)
}

func newTestService() *ChartService {
	cfg := Config{Now: func() time.Time { return fixedNow }}
	return NewChartService(cfg, price.NewStaticSource(), rand.New(rand.NewSource(1)), nil)
}

func TestChartServiceFetch(t *testing.T) {
	svc := newTestService()

	data, err := svc.Fetch(context.Background(), "ETH", "USDC", Timeframe1W)
	require.NoError(t, err)
	assert.Len(t, data.Points, 168)
	assert.Equal(t, fixedNow.UnixMilli(), data.Points[167].Timestamp)
	assert.Equal(t, data.Points[167].Price, data.CurrentPrice)

	_, err = svc.Fetch(context.Background(), "", "USDC", Timeframe1D)
	assert.ErrorIs(t, err, ErrPairRequired)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Fetch(ctx, "ETH", "USDC", Timeframe1D)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartServiceFetchPool(t *testing.T) {
	svc := newTestService()

	h, err := svc.FetchPool(context.Background(), "1-0xabc-0xdef")
	require.NoError(t, err)
	assert.Len(t, h.TVL, historyDays)

	_, err = svc.FetchPool(context.Background(), "")
	assert.ErrorIs(t, err, ErrPoolRequired)
}

func TestRefresher(t *testing.T) {
	t.Run("run now publishes chart", func(t *testing.T) {
		var updates int
		r := NewRefresher(newTestService(), "ETH", "USDC", Timeframe1H, "", func(ChartData) { updates++ }, nil)

		_, ok := r.Latest()
		assert.False(t, ok)

		r.RunNow(context.Background())
		data, ok := r.Latest()
		require.True(t, ok)
		assert.Len(t, data.Points, 60)
		assert.Equal(t, 1, updates)
		assert.Empty(t, r.Error())
	})

	t.Run("failed refresh keeps previous chart", func(t *testing.T) {
		r := NewRefresher(newTestService(), "ETH", "USDC", Timeframe1H, "", nil, nil)
		r.RunNow(context.Background())
		before, _ := r.Latest()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r.RunNow(ctx)

		after, ok := r.Latest()
		require.True(t, ok)
		assert.Equal(t, before, after)
		assert.Equal(t, chartErrorMessage, r.Error())
	})

	t.Run("schedule", func(t *testing.T) {
		r := NewRefresher(newTestService(), "ETH", "USDC", Timeframe1D, "@every 1h", nil, nil)
		require.NoError(t, r.Start())
		r.Stop()

		bad := NewRefresher(newTestService(), "ETH", "USDC", Timeframe1D, "not a schedule", nil, nil)
		assert.Error(t, bad.Start())
	})
}
