package analytics

import (
	"math"
	"math/rand"
	"time"

	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

// Timeframe is a chart range label such as "1D".
type Timeframe string

const (
	Timeframe1H Timeframe = "1H"
	Timeframe1D Timeframe = "1D"
	Timeframe1W Timeframe = "1W"
	Timeframe1M Timeframe = "1M"
	Timeframe1Y Timeframe = "1Y"
)

const defaultVolatility = 0.015

// TimeframePoints returns how many samples a chart of tf holds.
// Unknown labels fall back to the 1D layout.
func TimeframePoints(tf Timeframe) int {
	switch tf {
	case Timeframe1H:
		return 60
	case Timeframe1D:
		return 96
	case Timeframe1W:
		return 168
	case Timeframe1M:
		return 120
	case Timeframe1Y:
		return 365
	default:
		return 96
	}
}

// TimeframeInterval returns the spacing between samples of tf.
func TimeframeInterval(tf Timeframe) time.Duration {
	switch tf {
	case Timeframe1H:
		return time.Minute
	case Timeframe1W:
		return time.Hour
	case Timeframe1M:
		return 6 * time.Hour
	case Timeframe1Y:
		return 24 * time.Hour
	default:
		return 15 * time.Minute
	}
}

// BasePrice is the starting chart price for a pair, expressed as the
// output token's USD price over the input token's.
func BasePrice(src price.StaticSource, in, out string) float64 {
	pIn := src.USD(in).InexactFloat64()
	pOut := src.USD(out).InexactFloat64()
	if pIn == 0 {
		return 0
	}
	return pOut / pIn
}

// GeneratePriceSeries walks a price from base over points samples ending
// at now. Each step moves by (r-0.5)*volatility; volume is r*1e6.
func GeneratePriceSeries(r *rand.Rand, base float64, points int, volatility float64, now time.Time, interval time.Duration) []model.PricePoint {
	if points <= 0 {
		return nil
	}
	series := make([]model.PricePoint, 0, points)
	current := base
	for i := points - 1; i >= 0; i-- {
		change := (r.Float64() - 0.5) * volatility
		current = current * (1 + change)
		series = append(series, model.PricePoint{
			Timestamp: now.Add(-time.Duration(i) * interval).UnixMilli(),
			Price:     current,
			Volume:    r.Float64() * 1_000_000,
		})
	}
	return series
}

// ChartData is a price series with its summary figures.
type ChartData struct {
	Points         []model.PricePoint `json:"data"`
	CurrentPrice   float64            `json:"current_price"`
	PriceChange24h float64            `json:"price_change_24h"`
	High24h        float64            `json:"high_24h"`
	Low24h         float64            `json:"low_24h"`
	Volume24h      float64            `json:"volume_24h"`
}

// Summarize computes the headline figures of series. An empty series
// yields zero figures.
func Summarize(series []model.PricePoint) ChartData {
	out := ChartData{Points: series}
	if len(series) == 0 {
		return out
	}
	start := series[0].Price
	high, low := math.Inf(-1), math.Inf(1)
	for _, p := range series {
		high = math.Max(high, p.Price)
		low = math.Min(low, p.Price)
		out.Volume24h += p.Volume
	}
	out.CurrentPrice = series[len(series)-1].Price
	out.High24h = high
	out.Low24h = low
	if start != 0 {
		out.PriceChange24h = (out.CurrentPrice - start) / start * 100
	}
	return out
}
