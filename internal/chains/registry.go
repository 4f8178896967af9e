package chains

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"nexusSwap/internal/model"
)

const logoBase = "https://cryptologos.cc/logos/"

var supported = []model.Chain{
	{
		ID:        1,
		Name:      "Ethereum",
		ShortName: "ETH",
		NativeCurrency: model.NativeCurrency{
			Name:     "Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
		RPCURL:           envOr("NEXUS_ETH_RPC_URL", "https://eth.llamarpc.com"),
		BlockExplorerURL: "https://etherscan.io",
		Icon:             logoBase + "ethereum-eth-logo.png",
	},
	{
		ID:        56,
		Name:      "BNB Smart Chain",
		ShortName: "BSC",
		NativeCurrency: model.NativeCurrency{
			Name:     "BNB",
			Symbol:   "BNB",
			Decimals: 18,
		},
		RPCURL:           envOr("NEXUS_BSC_RPC_URL", "https://bsc-dataseed.binance.org"),
		BlockExplorerURL: "https://bscscan.com",
		Icon:             logoBase + "bnb-bnb-logo.png",
	},
	{
		ID:        137,
		Name:      "Polygon",
		ShortName: "MATIC",
		NativeCurrency: model.NativeCurrency{
			Name:     "MATIC",
			Symbol:   "MATIC",
			Decimals: 18,
		},
		RPCURL:           envOr("NEXUS_POLYGON_RPC_URL", "https://polygon-rpc.com"),
		BlockExplorerURL: "https://polygonscan.com",
		Icon:             logoBase + "polygon-matic-logo.png",
	},
	{
		ID:        42161,
		Name:      "Arbitrum One",
		ShortName: "ARB",
		NativeCurrency: model.NativeCurrency{
			Name:     "Ether",
			Symbol:   "ETH",
			Decimals: 18,
		},
		RPCURL:           envOr("NEXUS_ARBITRUM_RPC_URL", "https://arb1.arbitrum.io/rpc"),
		BlockExplorerURL: "https://arbiscan.io",
		Icon:             logoBase + "arbitrum-arb-logo.png",
	},
}

// DefaultChainID is the chain used when nothing else is configured.
const DefaultChainID uint64 = 1

// DefaultChain returns the registry's default network (Ethereum).
func DefaultChain() model.Chain {
	c, _ := ChainByID(DefaultChainID)
	return c
}

// Supported returns a copy of the supported chain table.
func Supported() []model.Chain {
	out := make([]model.Chain, len(supported))
	copy(out, supported)
	return out
}

// ChainByID resolves a chain from the registry.
func ChainByID(chainID uint64) (model.Chain, bool) {
	for _, c := range supported {
		if c.ID == chainID {
			return c, true
		}
	}
	return model.Chain{}, false
}

// IsSupported reports whether the chain id resolves in the registry.
func IsSupported(chainID uint64) bool {
	_, ok := ChainByID(chainID)
	return ok
}

// NativeToken synthesizes the native asset token for a chain.
func NativeToken(chainID uint64) (model.Token, error) {
	c, ok := ChainByID(chainID)
	if !ok {
		return model.Token{}, fmt.Errorf("chain %d not supported", chainID)
	}
	return model.Token{
		Address:  model.NativeAddress,
		Name:     c.NativeCurrency.Name,
		Symbol:   c.NativeCurrency.Symbol,
		Decimals: c.NativeCurrency.Decimals,
		ChainID:  chainID,
		IsNative: true,
		LogoURI:  c.Icon,
	}, nil
}

// TokensForChain returns the native token followed by the popular tokens.
// Unknown chains yield nil.
func TokensForChain(chainID uint64) []model.Token {
	native, err := NativeToken(chainID)
	if err != nil {
		return nil
	}
	popular := popularTokens[chainID]
	out := make([]model.Token, 0, len(popular)+1)
	out = append(out, native)
	out = append(out, popular...)
	return out
}

// FormatChainID returns the chain short name, or the decimal id if unknown.
func FormatChainID(chainID uint64) string {
	if c, ok := ChainByID(chainID); ok {
		return c.ShortName
	}
	return strconv.FormatUint(chainID, 10)
}

// ChainIDHex encodes the chain id the way wallet providers expect it.
func ChainIDHex(chainID uint64) string {
	return hexutil.EncodeUint64(chainID)
}

// ExplorerTxURL links a transaction hash on the chain's explorer.
func ExplorerTxURL(chainID uint64, hash string) string {
	c, ok := ChainByID(chainID)
	if !ok {
		return "#"
	}
	return c.BlockExplorerURL + "/tx/" + hash
}

// ExplorerAddressURL links an address on the chain's explorer.
func ExplorerAddressURL(chainID uint64, address string) string {
	c, ok := ChainByID(chainID)
	if !ok {
		return "#"
	}
	return c.BlockExplorerURL + "/address/" + address
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func checksum(address string) string {
	return common.HexToAddress(address).Hex()
}
