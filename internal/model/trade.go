package model

import "github.com/shopspring/decimal"

// LiquidityProviderFeeRate is the fixed fee charged on the input amount.
var LiquidityProviderFeeRate = decimal.RequireFromString("0.003")

// Trade is a quote for swapping InputToken into OutputToken.
type Trade struct {
	InputAmount          string   `json:"input_amount"`
	OutputAmount         string   `json:"output_amount"`
	InputToken           Token    `json:"input_token"`
	OutputToken          Token    `json:"output_token"`
	Price                float64  `json:"price"`
	PriceImpact          float64  `json:"price_impact"`
	Route                []string `json:"route"`
	MinimumReceived      string   `json:"minimum_received"`
	LiquidityProviderFee string   `json:"liquidity_provider_fee"`
}

// SwapSettings holds user preferences for swaps.
type SwapSettings struct {
	SlippageTolerance float64 `json:"slippage_tolerance"`
	Deadline          int     `json:"deadline"`
	InfiniteApprove   bool    `json:"infinite_approve"`
	ExpertMode        bool    `json:"expert_mode"`
}

// DefaultSwapSettings returns the settings a fresh store starts with.
func DefaultSwapSettings() SwapSettings {
	return SwapSettings{
		SlippageTolerance: 0.5,
		Deadline:          20,
	}
}
