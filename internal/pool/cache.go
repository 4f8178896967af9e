package pool

import (
	"context"

	"go.uber.org/zap"

	"nexusSwap/internal/model"
)

// Cache stores the pool list of a chain.
type Cache interface {
	GetPools(ctx context.Context, chainID uint64) ([]model.Pool, bool, error)
	SetPools(ctx context.Context, chainID uint64, pools []model.Pool) error
}

// CachedSource serves pools from cache and falls back to the wrapped
// source on a miss. Cache failures are logged and never fail the fetch.
type CachedSource struct {
	inner  ReserveSource
	cache  Cache
	logger *zap.Logger
}

func NewCachedSource(inner ReserveSource, cache Cache, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{inner: inner, cache: cache, logger: logger}
}

func (c *CachedSource) PoolsFor(ctx context.Context, chainID uint64) ([]model.Pool, error) {
	pools, ok, err := c.cache.GetPools(ctx, chainID)
	if err != nil {
		c.logger.Warn("read pool cache", zap.Uint64("chain", chainID), zap.Error(err))
	} else if ok {
		c.logger.Debug("pool cache hit", zap.Uint64("chain", chainID), zap.Int("count", len(pools)))
		return pools, nil
	}

	pools, err = c.inner.PoolsFor(ctx, chainID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetPools(ctx, chainID, pools); err != nil {
		c.logger.Warn("write pool cache", zap.Uint64("chain", chainID), zap.Error(err))
	}
	return pools, nil
}
