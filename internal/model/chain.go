package model

// NativeCurrency describes the gas asset of a chain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Chain is a supported network entry.
type Chain struct {
	ID               uint64         `json:"id"`
	Name             string         `json:"name"`
	ShortName        string         `json:"short_name"`
	NativeCurrency   NativeCurrency `json:"native_currency"`
	RPCURL           string         `json:"rpc_url"`
	BlockExplorerURL string         `json:"block_explorer_url"`
	Icon             string         `json:"icon"`
	Testnet          bool           `json:"testnet"`
}
