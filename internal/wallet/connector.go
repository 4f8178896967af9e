package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"nexusSwap/internal/chains"
)

const (
	msgNotInstalled  = "Wallet provider is not installed"
	msgNoAccounts    = "No accounts found"
	msgConnectFailed = "Failed to connect wallet"
	msgUnsupported   = "Unsupported chain"
	msgAddFailed     = "Failed to add chain"
	msgSwitchFailed  = "Failed to switch chain"
)

// Connector drives the wallet store from a Provider. Failures are kept as
// a user readable message available through Error.
type Connector struct {
	store    *Store
	provider Provider
	latency  time.Duration
	logger   *zap.Logger

	mu  sync.Mutex
	err string
}

// NewConnector wires a provider to the store. provider may be nil when no
// wallet is available; latency delays simulated connections.
func NewConnector(store *Store, provider Provider, latency time.Duration, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{store: store, provider: provider, latency: latency, logger: logger}
}

// Error returns the last failure message, or "".
func (c *Connector) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Connector) HasProvider() bool {
	return c.provider != nil
}

func (c *Connector) setError(msg string) {
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
}

// Connect requests accounts from the provider and connects the first one.
func (c *Connector) Connect(ctx context.Context) error {
	if c.provider == nil {
		c.setError(msgNotInstalled)
		return ErrProviderMissing
	}
	c.setError("")
	c.store.SetConnecting(true)
	defer c.store.SetConnecting(false)

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		c.setError(messageOr(err, msgConnectFailed))
		return fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		c.setError(msgNoAccounts)
		return ErrNoAccounts
	}
	chainID, err := c.provider.ChainID(ctx)
	if err != nil {
		c.setError(messageOr(err, msgConnectFailed))
		return fmt.Errorf("read chain id: %w", err)
	}

	c.store.Connect(accounts[0], chainID, c.provider)
	c.logger.Info("wallet connected", zap.String("address", accounts[0]), zap.Uint64("chain", chainID))
	return nil
}

// ConnectSimulated stands in for a WalletConnect session: after the
// configured latency a random account is connected on chain 1.
func (c *Connector) ConnectSimulated(ctx context.Context) (string, error) {
	c.setError("")
	c.store.SetConnecting(true)
	defer c.store.SetConnecting(false)

	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		c.setError(msgConnectFailed)
		return "", ctx.Err()
	case <-timer.C:
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		c.setError(msgConnectFailed)
		return "", fmt.Errorf("generate account: %w", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	c.store.Connect(address, chains.DefaultChainID, nil)
	c.logger.Info("simulated wallet connected", zap.String("address", address))
	return address, nil
}

// AutoConnect reconnects silently when the provider already exposes an
// account.
func (c *Connector) AutoConnect(ctx context.Context) bool {
	if c.provider == nil {
		return false
	}
	accounts, err := c.provider.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		if err != nil {
			c.logger.Warn("auto connect", zap.Error(err))
		}
		return false
	}
	chainID, err := c.provider.ChainID(ctx)
	if err != nil {
		c.logger.Warn("auto connect", zap.Error(err))
		return false
	}
	c.store.Connect(accounts[0], chainID, c.provider)
	return true
}

func (c *Connector) Disconnect() {
	c.store.Disconnect()
	c.setError("")
}

// SwitchToChain asks the provider to switch networks, registering the
// chain with the wallet first if it is unknown there.
func (c *Connector) SwitchToChain(ctx context.Context, chainID uint64) error {
	if c.provider == nil {
		return ErrProviderMissing
	}
	if !c.store.State().IsConnected {
		return ErrNotConnected
	}
	chain, ok := chains.ChainByID(chainID)
	if !ok {
		c.setError(msgUnsupported)
		return fmt.Errorf("switch to chain %d: %w", chainID, ErrUnsupportedChain)
	}

	hexID := chains.ChainIDHex(chainID)
	err := c.provider.SwitchChain(ctx, hexID)
	switch {
	case err == nil:
	case errors.Is(err, ErrChainNotAdded):
		params := AddChainParams{
			ChainID:           hexID,
			ChainName:         chain.Name,
			NativeCurrency:    chain.NativeCurrency,
			RPCURLs:           []string{chain.RPCURL},
			BlockExplorerURLs: []string{chain.BlockExplorerURL},
		}
		if addErr := c.provider.AddChain(ctx, params); addErr != nil {
			c.setError(msgAddFailed)
			return fmt.Errorf("add chain %d: %w", chainID, addErr)
		}
	default:
		c.setError(messageOr(err, msgSwitchFailed))
		return fmt.Errorf("switch to chain %d: %w", chainID, err)
	}

	c.store.SwitchChain(chainID)
	c.logger.Info("chain switched", zap.Uint64("chain", chainID))
	return nil
}

// Watch applies provider events to the store until ctx is done or the
// event stream closes.
func (c *Connector) Watch(ctx context.Context) error {
	if c.provider == nil {
		return ErrProviderMissing
	}
	events := c.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(ev)
		}
	}
}

// HandleEvent applies a single provider event.
func (c *Connector) HandleEvent(ev Event) {
	switch ev.Kind {
	case AccountsChanged:
		if len(ev.Accounts) == 0 {
			c.store.Disconnect()
			return
		}
		st := c.store.State()
		if ev.Accounts[0] == st.Address {
			return
		}
		chainID := st.ChainID
		if chainID == 0 {
			chainID = chains.DefaultChainID
		}
		c.store.Connect(ev.Accounts[0], chainID, nil)
	case ChainChanged:
		id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(ev.ChainID), "0x"), 16, 64)
		if err != nil {
			c.logger.Warn("bad chain id from provider", zap.String("chain_id", ev.ChainID))
			return
		}
		if !c.store.SwitchChain(id) {
			c.logger.Debug("ignore unsupported chain", zap.Uint64("chain", id))
		}
	case Disconnected:
		c.store.Disconnect()
	}
}

func messageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
