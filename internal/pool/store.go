package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/chains"
	"nexusSwap/internal/model"
)

// Config holds the simulated latencies of the pool store.
type Config struct {
	PoolLatency     time.Duration
	PositionLatency time.Duration
	TxLatency       time.Duration
}

// State is a snapshot of the pool store.
type State struct {
	ChainID            uint64
	Pools              []model.Pool
	IsLoadingPools     bool
	SelectedPool       *model.Pool
	Positions          []model.LiquidityPosition
	IsLoadingPositions bool

	Token0Amount      string
	Token1Amount      string
	IsAddingLiquidity bool

	ShowAddLiquidityModal    bool
	ShowRemoveLiquidityModal bool
}

// Deposit describes a completed add-liquidity action.
type Deposit struct {
	Pool        model.Pool
	Amount0     string
	Amount1     string
	LPTokens    string
	ShareOfPool float64
}

// Preview is the add-liquidity summary shown before submitting.
type Preview struct {
	ShareOfPool float64
	LPTokens    string
}

// Store holds pools, positions and the add-liquidity form. Fetches that are
// overtaken by a newer fetch of the same kind are discarded.
type Store struct {
	cfg       Config
	reserves  ReserveSource
	positions PositionSource
	logger    *zap.Logger

	mu      sync.Mutex
	state   State
	poolSeq uint64
	posSeq  uint64
}

func NewStore(cfg Config, reserves ReserveSource, positions PositionSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cfg:       cfg,
		reserves:  reserves,
		positions: positions,
		logger:    logger,
	}
}

// State returns a snapshot. Slices are copied.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Pools = append([]model.Pool(nil), s.state.Pools...)
	st.Positions = append([]model.LiquidityPosition(nil), s.state.Positions...)
	if s.state.SelectedPool != nil {
		p := *s.state.SelectedPool
		st.SelectedPool = &p
	}
	return st
}

// FetchPools replaces the pool list with the pools of chainID.
func (s *Store) FetchPools(ctx context.Context, chainID uint64) error {
	if !chains.IsSupported(chainID) {
		return fmt.Errorf("fetch pools for chain %d: %w", chainID, ErrUnsupportedChain)
	}

	s.mu.Lock()
	s.poolSeq++
	seq := s.poolSeq
	s.state.IsLoadingPools = true
	s.mu.Unlock()

	if err := sleep(ctx, s.cfg.PoolLatency); err != nil {
		s.finishPools(seq)
		return err
	}
	pools, err := s.reserves.PoolsFor(ctx, chainID)
	if err != nil {
		s.finishPools(seq)
		return fmt.Errorf("fetch pools for chain %d: %w", chainID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.poolSeq {
		s.logger.Debug("discard stale pools", zap.Uint64("chain", chainID), zap.Uint64("seq", seq))
		return nil
	}
	s.state.ChainID = chainID
	s.state.Pools = pools
	s.state.IsLoadingPools = false
	s.reconcileSelection()
	s.logger.Info("pools loaded", zap.Uint64("chain", chainID), zap.Int("count", len(pools)))
	return nil
}

func (s *Store) finishPools(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.poolSeq {
		s.state.IsLoadingPools = false
	}
}

func (s *Store) reconcileSelection() {
	if s.state.SelectedPool == nil {
		return
	}
	for _, p := range s.state.Pools {
		if p.ID == s.state.SelectedPool.ID {
			fresh := p
			s.state.SelectedPool = &fresh
			return
		}
	}
	s.state.SelectedPool = nil
	s.state.Token0Amount = ""
	s.state.Token1Amount = ""
}

// FetchPositions replaces the position list for address using the pools
// currently loaded.
func (s *Store) FetchPositions(ctx context.Context, address string, chainID uint64) error {
	if address == "" {
		return ErrAddressRequired
	}

	s.mu.Lock()
	s.posSeq++
	seq := s.posSeq
	s.state.IsLoadingPositions = true
	pools := append([]model.Pool(nil), s.state.Pools...)
	s.mu.Unlock()

	if err := sleep(ctx, s.cfg.PositionLatency); err != nil {
		s.finishPositions(seq)
		return err
	}
	positions, err := s.positions.PositionsFor(ctx, address, pools)
	if err != nil {
		s.finishPositions(seq)
		return fmt.Errorf("fetch positions of %s: %w", address, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.posSeq {
		s.logger.Debug("discard stale positions", zap.String("address", address), zap.Uint64("seq", seq))
		return nil
	}
	s.state.Positions = positions
	s.state.IsLoadingPositions = false
	s.logger.Info("positions loaded",
		zap.String("address", address),
		zap.Uint64("chain", chainID),
		zap.Int("count", len(positions)),
	)
	return nil
}

func (s *Store) finishPositions(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.posSeq {
		s.state.IsLoadingPositions = false
	}
}

// SelectPool picks the pool the deposit form works on. Unknown ids clear
// the selection.
func (s *Store) SelectPool(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token0Amount = ""
	s.state.Token1Amount = ""
	for _, p := range s.state.Pools {
		if p.ID == id {
			sel := p
			s.state.SelectedPool = &sel
			return true
		}
	}
	s.state.SelectedPool = nil
	return false
}

// SetToken0Amount stores the token0 side and recomputes token1 from the
// selected pool's reserve ratio.
func (s *Store) SetToken0Amount(value string) {
	s.setAmount(Side0, value)
}

// SetToken1Amount is the mirror of SetToken0Amount.
func (s *Store) SetToken1Amount(value string) {
	s.setAmount(Side1, value)
}

func (s *Store) setAmount(side Side, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if side == Side0 {
		s.state.Token0Amount = value
	} else {
		s.state.Token1Amount = value
	}
	if s.state.SelectedPool == nil || value == "" {
		return
	}
	other, err := CoupledAmount(*s.state.SelectedPool, side, value)
	if err != nil {
		other = ""
	}
	if side == Side0 {
		s.state.Token1Amount = other
	} else {
		s.state.Token0Amount = other
	}
}

// Preview summarizes the pending deposit against the selected pool.
func (s *Store) Preview() (Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedPool == nil || !amount.IsPositive(s.state.Token0Amount) {
		return Preview{}, false
	}
	p := *s.state.SelectedPool
	return Preview{
		ShareOfPool: ShareOfPool(p, s.state.Token0Amount),
		LPTokens:    LPTokensToReceive(p, s.state.Token0Amount),
	}, true
}

func (s *Store) SetShowAddLiquidityModal(show bool) {
	s.mu.Lock()
	s.state.ShowAddLiquidityModal = show
	s.mu.Unlock()
}

func (s *Store) SetShowRemoveLiquidityModal(show bool) {
	s.mu.Lock()
	s.state.ShowRemoveLiquidityModal = show
	s.mu.Unlock()
}

// AddLiquidity simulates the deposit of the current form amounts. On
// success the form is cleared and the modal closed; positions are left as
// they are.
func (s *Store) AddLiquidity(ctx context.Context, balance0, balance1 string) (Deposit, error) {
	s.mu.Lock()
	if s.state.SelectedPool == nil {
		s.mu.Unlock()
		return Deposit{}, ErrNoPoolSelected
	}
	p := *s.state.SelectedPool
	a0, a1 := s.state.Token0Amount, s.state.Token1Amount
	if !ValidDeposit(a0, a1, balance0, balance1) {
		s.mu.Unlock()
		return Deposit{}, fmt.Errorf("add liquidity to %s: %w", p.ID, ErrInvalidDeposit)
	}
	s.state.IsAddingLiquidity = true
	s.mu.Unlock()

	dep := Deposit{
		Pool:        p,
		Amount0:     a0,
		Amount1:     a1,
		LPTokens:    LPTokensToReceive(p, a0),
		ShareOfPool: ShareOfPool(p, a0),
	}

	err := sleep(ctx, s.cfg.TxLatency)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAddingLiquidity = false
	if err != nil {
		return Deposit{}, err
	}
	s.state.ShowAddLiquidityModal = false
	s.state.Token0Amount = ""
	s.state.Token1Amount = ""
	s.logger.Info("liquidity added",
		zap.String("pool", p.ID),
		zap.String("amount0", a0),
		zap.String("amount1", a1),
	)
	return dep, nil
}

// RemoveLiquidity withdraws pct percent of the positions held in poolID.
func (s *Store) RemoveLiquidity(ctx context.Context, poolID string, pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("remove liquidity from %s: %w", poolID, ErrInvalidPercentage)
	}

	s.mu.Lock()
	s.state.IsAddingLiquidity = true
	s.mu.Unlock()

	err := sleep(ctx, s.cfg.TxLatency)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAddingLiquidity = false
	if err != nil {
		return err
	}
	next, err := ApplyRemoval(s.state.Positions, poolID, pct)
	if err != nil {
		return err
	}
	s.state.Positions = next
	s.state.ShowRemoveLiquidityModal = false
	s.logger.Info("liquidity removed", zap.String("pool", poolID), zap.Float64("pct", pct))
	return nil
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
