package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"nexusSwap/internal/model"
)

const poolsHash = "pools"

func poolsKey(chainID uint64) string {
	return fmt.Sprintf("%d.%s", chainID, poolsHash)
}

// PoolCache keeps one hash per chain, keyed by pool id.
type PoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPoolCache(addr string, ttl time.Duration) (*PoolCache, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return NewPoolCacheFromClient(client, ttl), nil
}

func NewPoolCacheFromClient(client *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{client: client, ttl: ttl}
}

func (c *PoolCache) Close() error {
	return c.client.Close()
}

// GetPools returns the cached pools ordered by TVL, or false when the
// chain has no entry.
func (c *PoolCache) GetPools(ctx context.Context, chainID uint64) ([]model.Pool, bool, error) {
	entries, err := c.client.HGetAll(ctx, poolsKey(chainID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	pools := make([]model.Pool, 0, len(entries))
	for id, raw := range entries {
		var p model.Pool
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, false, fmt.Errorf("decode cached pool %s: %w", id, err)
		}
		pools = append(pools, p)
	}
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].TVL == pools[j].TVL {
			return pools[i].ID < pools[j].ID
		}
		return pools[i].TVL > pools[j].TVL
	})
	return pools, true, nil
}

// SetPools replaces the chain's hash with pools.
func (c *PoolCache) SetPools(ctx context.Context, chainID uint64, pools []model.Pool) error {
	key := poolsKey(chainID)
	fields := make(map[string]interface{}, len(pools))
	for _, p := range pools {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode pool %s: %w", p.ID, err)
		}
		fields[p.ID] = string(raw)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
			if c.ttl > 0 {
				pipe.Expire(ctx, key, c.ttl)
			}
		}
		return nil
	})
	return err
}

// ClearPools drops the cached pools of a chain.
func (c *PoolCache) ClearPools(ctx context.Context, chainID uint64) error {
	return c.client.Del(ctx, poolsKey(chainID)).Err()
}
