package swap

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

// Config controls quoting behaviour of a Store.
type Config struct {
	Latency  time.Duration
	Settings model.SwapSettings
	Impact   price.ImpactModel
	Metrics  *Metrics
}

// Store owns the swap state. Every action applies a pure transition under
// the lock and schedules the resulting quotes in the background. A quote is
// committed only if no newer driver change happened while it was running.
type Store struct {
	cfg    Config
	source price.Source
	logger *zap.Logger

	mu    sync.Mutex
	state State

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStore(cfg Config, source price.Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Settings == (model.SwapSettings{}) {
		cfg.Settings = model.DefaultSwapSettings()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		cfg:    cfg,
		source: source,
		logger: logger,
		state:  NewState(cfg.Settings),
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) SetInputToken(token *model.Token) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetInputToken(token) })
}

func (s *Store) SetOutputToken(token *model.Token) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetOutputToken(token) })
}

func (s *Store) SetInputAmount(value string) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetInputAmount(value) })
}

func (s *Store) SetOutputAmount(value string) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetOutputAmount(value) })
}

func (s *Store) SwitchTokens() {
	s.dispatch(State.SwitchTokens)
}

func (s *Store) InitializeTokens(chainID uint64) {
	s.dispatch(func(st State) (State, []Effect) { return st.InitializeTokens(chainID) })
}

func (s *Store) Reset() {
	s.dispatch(func(st State) (State, []Effect) { return st.Reset(), nil })
}

func (s *Store) SetShowSettings(show bool) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetShowSettings(show), nil })
}

func (s *Store) SetTokenSelector(side Side) {
	s.dispatch(func(st State) (State, []Effect) { return st.SetTokenSelector(side), nil })
}

// UpdateSettings merges patch into the settings. Invalid values are
// rejected and leave the settings untouched.
func (s *Store) UpdateSettings(patch SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.UpdateSettings(patch)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Wait blocks until all scheduled quotes have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close abandons in-flight quotes and waits for them to return. Quotes
// abandoned or requested after Close settle as failed.
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Store) dispatch(fn func(State) (State, []Effect)) {
	s.mu.Lock()
	next, effects := fn(s.state)
	s.state = next
	s.mu.Unlock()

	for _, eff := range effects {
		s.schedule(eff)
	}
}

func (s *Store) schedule(eff Effect) {
	s.cfg.Metrics.observe(eff.Direction, resultStarted)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()

		var res Result
		if sleep(s.ctx, s.cfg.Latency) {
			res = Calculate(s.ctx, s.source, s.cfg.Impact, eff)
		} else {
			res = Result{Seq: eff.Seq, Direction: eff.Direction, Err: s.ctx.Err()}
		}

		s.mu.Lock()
		next, ok := s.state.Commit(res)
		s.state = next
		current := s.state.Seq
		s.mu.Unlock()

		s.cfg.Metrics.observeDuration(eff.Direction, time.Since(start))
		switch {
		case !ok:
			s.cfg.Metrics.observe(eff.Direction, resultDiscarded)
			s.logger.Debug("discard stale quote",
				zap.Uint64("seq", eff.Seq),
				zap.Uint64("current", current),
				zap.String("direction", eff.Direction.String()),
			)
		case res.Err != nil:
			s.cfg.Metrics.observe(eff.Direction, resultFailed)
			s.logger.Warn("quote failed",
				zap.Uint64("seq", eff.Seq),
				zap.String("pair", eff.Pair.In.Symbol+"/"+eff.Pair.Out.Symbol),
				zap.Error(res.Err),
			)
		default:
			s.cfg.Metrics.observe(eff.Direction, resultCommitted)
			s.logger.Debug("commit quote",
				zap.Uint64("seq", eff.Seq),
				zap.String("input", res.Trade.InputAmount),
				zap.String("output", res.Trade.OutputAmount),
			)
		}
	}()
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
