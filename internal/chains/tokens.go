package chains

import "nexusSwap/internal/model"

func token(chainID uint64, address, name, symbol string, decimals uint8, logo string) model.Token {
	return model.Token{
		Address:  checksum(address),
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		ChainID:  chainID,
		LogoURI:  logoBase + logo,
	}
}

const (
	logoETH  = "ethereum-eth-logo.png"
	logoUSDC = "usd-coin-usdc-logo.png"
	logoUSDT = "tether-usdt-logo.png"
	logoDAI  = "multi-collateral-dai-dai-logo.png"
	logoWBTC = "wrapped-bitcoin-wbtc-logo.png"
)

var popularTokens = map[uint64][]model.Token{
	1: {
		token(1, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "Wrapped Ether", "WETH", 18, logoETH),
		token(1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USD Coin", "USDC", 6, logoUSDC),
		token(1, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "Tether USD", "USDT", 6, logoUSDT),
		token(1, "0x6B175474E89094C44Da98b954EedeAC495271d0F", "Dai Stablecoin", "DAI", 18, logoDAI),
		token(1, "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "Wrapped BTC", "WBTC", 8, logoWBTC),
	},
	56: {
		token(56, "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", "Wrapped BNB", "WBNB", 18, "bnb-bnb-logo.png"),
		token(56, "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", "USD Coin", "USDC", 18, logoUSDC),
		token(56, "0x55d398326f99059fF775485246999027B3197955", "Tether USD", "USDT", 18, logoUSDT),
		token(56, "0x1AF3F329e8BE154074D8769D1FFa4eE058B1DBc3", "Dai Stablecoin", "DAI", 18, logoDAI),
		token(56, "0x7130d2A12B9BCbFAe4f2634d864A1Ee1Ce3Ead9c", "BTCB Token", "BTCB", 18, "bitcoin-btc-logo.png"),
	},
	137: {
		token(137, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", "Wrapped Ether", "WETH", 18, logoETH),
		token(137, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", "USD Coin", "USDC", 6, logoUSDC),
		token(137, "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", "Tether USD", "USDT", 6, logoUSDT),
		token(137, "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", "Dai Stablecoin", "DAI", 18, logoDAI),
		token(137, "0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6", "Wrapped BTC", "WBTC", 8, logoWBTC),
	},
	42161: {
		token(42161, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", "Wrapped Ether", "WETH", 18, logoETH),
		token(42161, "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8", "USD Coin", "USDC", 6, logoUSDC),
		token(42161, "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", "Tether USD", "USDT", 6, logoUSDT),
		token(42161, "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", "Dai Stablecoin", "DAI", 18, logoDAI),
		token(42161, "0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f", "Wrapped BTC", "WBTC", 8, logoWBTC),
	},
}

// TokenBySymbol finds a token of the chain by symbol (case-sensitive, as listed).
func TokenBySymbol(chainID uint64, symbol string) (model.Token, bool) {
	for _, t := range TokensForChain(chainID) {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return model.Token{}, false
}
