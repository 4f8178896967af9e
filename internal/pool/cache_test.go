package pool

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusSwap/internal/model"
)

type memCache struct {
	pools  map[uint64][]model.Pool
	getErr error
	sets   int
}

func (m *memCache) GetPools(_ context.Context, chainID uint64) ([]model.Pool, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	p, ok := m.pools[chainID]
	return p, ok, nil
}

func (m *memCache) SetPools(_ context.Context, chainID uint64, pools []model.Pool) error {
	m.sets++
	m.pools[chainID] = pools
	return nil
}

type countingSource struct {
	inner ReserveSource
	calls int
}

func (c *countingSource) PoolsFor(ctx context.Context, chainID uint64) ([]model.Pool, error) {
	c.calls++
	return c.inner.PoolsFor(ctx, chainID)
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{inner: NewMockSource(rand.New(rand.NewSource(4)))}
	cache := &memCache{pools: map[uint64][]model.Pool{}}
	src := NewCachedSource(inner, cache, nil)

	first, err := src.PoolsFor(context.Background(), 1)
	require.NoError(t, err)
	second, err := src.PoolsFor(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)

	cache.getErr = errors.New("connection refused")
	_, err = src.PoolsFor(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
