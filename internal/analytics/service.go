package analytics

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexusSwap/internal/price"
)

var (
	ErrPairRequired = errors.New("token pair required")
	ErrPoolRequired = errors.New("pool id required")
)

const historyDays = 30

type Config struct {
	Latency     time.Duration
	PoolLatency time.Duration
	Volatility  float64
	Now         func() time.Time
}

// ChartService serves simulated price charts and pool histories.
type ChartService struct {
	cfg    Config
	prices price.StaticSource
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewChartService(cfg Config, prices price.StaticSource, r *rand.Rand, logger *zap.Logger) *ChartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Volatility <= 0 {
		cfg.Volatility = defaultVolatility
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ChartService{cfg: cfg, prices: prices, logger: logger, rng: r}
}

// Fetch builds the chart of in/out over tf after the configured latency.
func (s *ChartService) Fetch(ctx context.Context, in, out string, tf Timeframe) (ChartData, error) {
	if in == "" || out == "" {
		return ChartData{}, ErrPairRequired
	}
	if err := sleep(ctx, s.cfg.Latency); err != nil {
		return ChartData{}, fmt.Errorf("fetch chart %s/%s: %w", in, out, err)
	}

	base := BasePrice(s.prices, in, out)
	s.mu.Lock()
	series := GeneratePriceSeries(s.rng, base, TimeframePoints(tf), s.cfg.Volatility, s.cfg.Now(), TimeframeInterval(tf))
	s.mu.Unlock()

	data := Summarize(series)
	s.logger.Debug("chart fetched",
		zap.String("pair", in+"/"+out),
		zap.String("timeframe", string(tf)),
		zap.Int("points", len(series)),
	)
	return data, nil
}

// FetchPool returns thirty days of simulated metrics for poolID.
func (s *ChartService) FetchPool(ctx context.Context, poolID string) (PoolAnalytics, error) {
	if poolID == "" {
		return PoolAnalytics{}, ErrPoolRequired
	}
	if err := sleep(ctx, s.cfg.PoolLatency); err != nil {
		return PoolAnalytics{}, fmt.Errorf("fetch pool analytics %s: %w", poolID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return PoolHistory(s.rng, historyDays, s.cfg.Now()), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
