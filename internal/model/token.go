package model

import "strings"

// NativeAddress is the reserved address of a chain's native asset.
const NativeAddress = "0x0000000000000000000000000000000000000000"

// Token describes an ERC20 (or native) asset on a chain.
type Token struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	ChainID  uint64 `json:"chain_id"`
	IsNative bool   `json:"is_native,omitempty"`
	LogoURI  string `json:"logo_uri,omitempty"`
}

// TokenKey identifies a token across chains.
type TokenKey struct {
	ChainID uint64
	Address string
}

// Key returns the (chain, address) identity of the token.
func (t Token) Key() TokenKey {
	return TokenKey{ChainID: t.ChainID, Address: strings.ToLower(t.Address)}
}

// SameAs reports whether both tokens share the same identity.
func (t Token) SameAs(other Token) bool {
	return t.Key() == other.Key()
}
