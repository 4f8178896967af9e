package swap

import (
	"errors"
	"fmt"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/chains"
	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
)

// ErrQuoteUnavailable marks a quote that could not be produced. It is
// distinct from the empty state where no amount has been entered.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// Direction tells which side of the trade drives the calculation.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Side identifies the token selector that is open.
type Side string

const (
	SideNone   Side = ""
	SideInput  Side = "input"
	SideOutput Side = "output"
)

// State is a snapshot of the swap store. Transitions never mutate the
// receiver; they return the next state plus the quotes to schedule.
type State struct {
	InputToken    *model.Token
	OutputToken   *model.Token
	InputAmount   string
	OutputAmount  string
	Trade         *model.Trade
	IsCalculating bool
	QuoteErr      error
	Settings      model.SwapSettings
	ShowSettings  bool
	TokenSelector Side

	// Seq is bumped whenever a driver of the trade changes. Only results
	// carrying the current Seq may be committed.
	Seq uint64
}

// Effect is a quote request produced by a transition.
type Effect struct {
	Seq       uint64
	Direction Direction
	Pair      price.Pair
	Amount    string
	Slippage  float64
}

// Result is the outcome of running an Effect.
type Result struct {
	Seq       uint64
	Direction Direction
	Trade     *model.Trade
	Err       error
}

// NewState returns an empty state with the given settings.
func NewState(settings model.SwapSettings) State {
	return State{Settings: settings}
}

func (s State) SetInputToken(token *model.Token) (State, []Effect) {
	s.InputToken = cloneToken(token)
	return s.afterTokenChange()
}

func (s State) SetOutputToken(token *model.Token) (State, []Effect) {
	s.OutputToken = cloneToken(token)
	return s.afterTokenChange()
}

func (s State) afterTokenChange() (State, []Effect) {
	if s.InputAmount != "" && s.InputToken != nil && s.OutputToken != nil {
		return s.recalc(Forward)
	}
	return s.invalidate(), nil
}

func (s State) SetInputAmount(value string) (State, []Effect) {
	s.InputAmount = value
	if value == "" {
		s.OutputAmount = ""
		return s.invalidate(), nil
	}
	return s.recalc(Forward)
}

func (s State) SetOutputAmount(value string) (State, []Effect) {
	s.OutputAmount = value
	if value == "" {
		s.InputAmount = ""
		return s.invalidate(), nil
	}
	return s.recalc(Reverse)
}

// SwitchTokens swaps both tokens and both amount strings, then quotes the
// new pair forward when the new input amount is set.
func (s State) SwitchTokens() (State, []Effect) {
	s.InputToken, s.OutputToken = s.OutputToken, s.InputToken
	s.InputAmount, s.OutputAmount = s.OutputAmount, s.InputAmount
	if s.InputAmount != "" {
		return s.recalc(Forward)
	}
	return s.invalidate(), nil
}

// Reset clears the amounts and the quote but keeps tokens and settings.
func (s State) Reset() State {
	s.InputAmount = ""
	s.OutputAmount = ""
	return s.invalidate()
}

// InitializeTokens fills empty token slots with the chain's native token
// and first popular token.
func (s State) InitializeTokens(chainID uint64) (State, []Effect) {
	tokens := chains.TokensForChain(chainID)
	var effects []Effect
	if s.InputToken == nil && len(tokens) > 0 {
		s, effects = s.SetInputToken(&tokens[0])
	}
	if s.OutputToken == nil && len(tokens) > 1 {
		s, effects = s.SetOutputToken(&tokens[1])
	}
	return s, effects
}

// SettingsPatch is a partial settings update; nil fields are kept.
type SettingsPatch struct {
	SlippageTolerance *float64
	Deadline          *int
	InfiniteApprove   *bool
	ExpertMode        *bool
}

// UpdateSettings merges patch into the settings. It does not requote.
func (s State) UpdateSettings(patch SettingsPatch) (State, error) {
	next := s.Settings
	if patch.SlippageTolerance != nil {
		next.SlippageTolerance = *patch.SlippageTolerance
	}
	if patch.Deadline != nil {
		next.Deadline = *patch.Deadline
	}
	if patch.InfiniteApprove != nil {
		next.InfiniteApprove = *patch.InfiniteApprove
	}
	if patch.ExpertMode != nil {
		next.ExpertMode = *patch.ExpertMode
	}
	if err := ValidateSettings(next); err != nil {
		return s, err
	}
	s.Settings = next
	return s, nil
}

func (s State) SetShowSettings(show bool) State {
	s.ShowSettings = show
	return s
}

func (s State) SetTokenSelector(side Side) State {
	s.TokenSelector = side
	return s
}

// Commit applies a finished quote. Results from superseded requests are
// rejected and the state is returned unchanged.
func (s State) Commit(res Result) (State, bool) {
	if res.Seq != s.Seq {
		return s, false
	}
	s.IsCalculating = false
	if res.Err != nil {
		s.Trade = nil
		s.QuoteErr = fmt.Errorf("%w: %v", ErrQuoteUnavailable, res.Err)
		return s, true
	}
	s.QuoteErr = nil
	s.Trade = res.Trade
	if res.Trade != nil {
		switch res.Direction {
		case Forward:
			s.OutputAmount = res.Trade.OutputAmount
		case Reverse:
			s.InputAmount = res.Trade.InputAmount
		}
	}
	return s, true
}

// HighSlippage reports whether the slippage setting warrants a warning.
func (s State) HighSlippage() bool {
	return s.Settings.SlippageTolerance > highSlippage
}

func (s State) recalc(dir Direction) (State, []Effect) {
	driver := s.InputAmount
	if dir == Reverse {
		driver = s.OutputAmount
	}
	if s.InputToken == nil || s.OutputToken == nil || !amount.IsPositive(driver) {
		return s.invalidate(), nil
	}
	s.Seq++
	s.Trade = nil
	s.QuoteErr = nil
	s.IsCalculating = true
	return s, []Effect{{
		Seq:       s.Seq,
		Direction: dir,
		Pair:      price.Pair{In: *s.InputToken, Out: *s.OutputToken},
		Amount:    driver,
		Slippage:  s.Settings.SlippageTolerance,
	}}
}

func (s State) invalidate() State {
	s.Seq++
	s.Trade = nil
	s.QuoteErr = nil
	s.IsCalculating = false
	return s
}

func cloneToken(token *model.Token) *model.Token {
	if token == nil {
		return nil
	}
	t := *token
	return &t
}
