package swap

import (
	"fmt"

	"nexusSwap/internal/amount"
	"nexusSwap/internal/model"
)

const (
	maxSlippage  = 50.0
	highSlippage = 5.0
	warnImpact   = 5.0
	blockImpact  = 15.0
)

// ValidateSettings checks the ranges accepted by the settings form.
func ValidateSettings(s model.SwapSettings) error {
	if s.SlippageTolerance < 0 || s.SlippageTolerance > maxSlippage {
		return fmt.Errorf("slippage tolerance %.2f outside [0, %.0f]", s.SlippageTolerance, maxSlippage)
	}
	if s.Deadline < 1 {
		return fmt.Errorf("deadline %d must be at least 1 minute", s.Deadline)
	}
	return nil
}

// Button is the label and enabled state of the swap submit control.
type Button struct {
	Label    string
	Disabled bool
}

// Gate decides what the submit control shows for a state. balance is the
// wallet balance of the input token as a decimal string; unparseable
// balances count as zero.
func Gate(s State, connected bool, balance string, swapping bool) Button {
	switch {
	case !connected:
		return Button{Label: "Connect Wallet"}
	case s.InputToken == nil || s.OutputToken == nil:
		return Button{Label: "Select Tokens", Disabled: true}
	case !amount.IsPositive(s.InputAmount):
		return Button{Label: "Enter Amount", Disabled: true}
	case s.IsCalculating:
		return Button{Label: "Calculating...", Disabled: true}
	case swapping:
		return Button{Label: "Swapping...", Disabled: true}
	case s.QuoteErr != nil:
		return Button{Label: "Quote Unavailable", Disabled: true}
	case s.Trade == nil:
		return Button{Label: "Enter Amount", Disabled: true}
	}

	in, _ := amount.Parse(s.InputAmount)
	bal, _ := amount.Parse(balance)
	if in.GreaterThan(bal) {
		return Button{
			Label:    fmt.Sprintf("Insufficient %s Balance", s.InputToken.Symbol),
			Disabled: true,
		}
	}

	impact := s.Trade.PriceImpact
	blocked := impact > blockImpact && !s.Settings.ExpertMode
	if impact > warnImpact {
		return Button{Label: "Price Impact Too High", Disabled: blocked}
	}
	return Button{Label: "Swap"}
}
