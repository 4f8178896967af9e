package pool

import (
	"context"
	"errors"

	"nexusSwap/internal/model"
)

var (
	ErrUnsupportedChain  = errors.New("unsupported chain")
	ErrAddressRequired   = errors.New("address required")
	ErrInvalidDeposit    = errors.New("invalid deposit amounts")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrNoPoolSelected    = errors.New("no pool selected")
)

// ReserveSource lists the pools of a chain.
type ReserveSource interface {
	PoolsFor(ctx context.Context, chainID uint64) ([]model.Pool, error)
}

// PositionSource lists the positions an address holds in pools.
type PositionSource interface {
	PositionsFor(ctx context.Context, address string, pools []model.Pool) ([]model.LiquidityPosition, error)
}
