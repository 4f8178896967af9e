package wallet

import (
	"context"
	"errors"

	"nexusSwap/internal/model"
)

var (
	ErrProviderMissing  = errors.New("wallet provider missing")
	ErrNoAccounts       = errors.New("no accounts found")
	ErrChainNotAdded    = errors.New("chain not added to wallet")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrNotConnected     = errors.New("wallet not connected")
)

// ChainNotAddedCode is the provider error code for an unknown chain.
const ChainNotAddedCode = 4902

type EventKind int

const (
	AccountsChanged EventKind = iota
	ChainChanged
	Disconnected
)

// Event is a notification pushed by the wallet provider. ChainID carries
// the hex encoded id for ChainChanged.
type Event struct {
	Kind     EventKind
	Accounts []string
	ChainID  string
}

// AddChainParams describes a chain for wallet_addEthereumChain.
type AddChainParams struct {
	ChainID           string               `json:"chainId"`
	ChainName         string               `json:"chainName"`
	NativeCurrency    model.NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string             `json:"rpcUrls"`
	BlockExplorerURLs []string             `json:"blockExplorerUrls"`
}

// Provider is the wallet boundary. Any call may fail; SwitchChain returns
// an error wrapping ErrChainNotAdded when the wallet does not know the
// chain.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (uint64, error)
	SwitchChain(ctx context.Context, chainIDHex string) error
	AddChain(ctx context.Context, params AddChainParams) error
	Events() <-chan Event
}
