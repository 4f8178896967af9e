package analytics

import (
	"math/rand"
	"time"

	"nexusSwap/internal/model"
)

// PoolAnalytics holds daily metric histories of a pool.
type PoolAnalytics struct {
	TVL    []model.ValuePoint `json:"tvl_history"`
	Volume []model.ValuePoint `json:"volume_history"`
	Fees   []model.ValuePoint `json:"fee_history"`
}

const day = 24 * time.Hour

// PoolHistory simulates days of daily pool metrics ending at now. TVL
// starts in [10M, 60M) and moves by up to 5% a day; volume is 5-20% of
// TVL and fees are 0.3% of volume.
func PoolHistory(r *rand.Rand, days int, now time.Time) PoolAnalytics {
	var out PoolAnalytics
	if days <= 0 {
		return out
	}
	out.TVL = make([]model.ValuePoint, 0, days)
	out.Volume = make([]model.ValuePoint, 0, days)
	out.Fees = make([]model.ValuePoint, 0, days)

	tvl := 10_000_000 + r.Float64()*50_000_000
	for i := days - 1; i >= 0; i-- {
		ts := now.Add(-time.Duration(i) * day).UnixMilli()
		change := (r.Float64() - 0.5) * 0.1
		tvl = tvl * (1 + change)

		volume := tvl * (0.05 + r.Float64()*0.15)
		fees := volume * model.LiquidityProviderFeeRate.InexactFloat64()

		out.TVL = append(out.TVL, model.ValuePoint{Timestamp: ts, Value: tvl})
		out.Volume = append(out.Volume, model.ValuePoint{Timestamp: ts, Value: volume})
		out.Fees = append(out.Fees, model.ValuePoint{Timestamp: ts, Value: fees})
	}
	return out
}
