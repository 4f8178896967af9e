package model

// MaxAPR caps the advertised pool APR (percent).
const MaxAPR = 500.0

// Pool represents a liquidity pool for a token pair.
// Reserves and total supply are base-10 decimal strings.
type Pool struct {
	ID          string  `json:"id"`
	Token0      Token   `json:"token0"`
	Token1      Token   `json:"token1"`
	Reserve0    string  `json:"reserve0"`
	Reserve1    string  `json:"reserve1"`
	TotalSupply string  `json:"total_supply"`
	TVL         float64 `json:"tvl"`
	Volume24h   float64 `json:"volume_24h"`
	Fees24h     float64 `json:"fees_24h"`
	APR         float64 `json:"apr"`
}

// LiquidityPosition is a user's share of a pool.
type LiquidityPosition struct {
	PoolID   string  `json:"pool_id"`
	Token0   Token   `json:"token0"`
	Token1   Token   `json:"token1"`
	Amount0  string  `json:"amount0"`
	Amount1  string  `json:"amount1"`
	LPTokens string  `json:"lp_tokens"`
	Share    float64 `json:"share"`
	ValueUSD float64 `json:"value_usd"`
}
