package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"nexusSwap/internal/chains"
)

type RPCConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// RPCProvider implements Provider over a JSON-RPC wallet endpoint. Provider
// notifications are derived by polling accounts and chain id.
type RPCProvider struct {
	cfg       RPCConfig
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	logger    *zap.Logger

	events    chan Event
	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// DialRPCProvider connects to a wallet JSON-RPC endpoint.
func DialRPCProvider(ctx context.Context, url string, cfg RPCConfig, logger *zap.Logger) (*RPCProvider, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc: %w", err)
	}
	return NewRPCProvider(rpcClient, cfg, logger), nil
}

func NewRPCProvider(rpcClient *rpc.Client, cfg RPCConfig, logger *zap.Logger) *RPCProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 4 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RPCProvider{
		cfg:       cfg,
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		logger:    logger,
		events:    make(chan Event, 8),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close stops polling and closes the underlying RPC client.
func (p *RPCProvider) Close() {
	p.cancel()
	p.wg.Wait()
	if p.rpcClient != nil {
		p.rpcClient.Close()
	}
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.rpcClient.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := p.retry(ctx, "eth_accounts", func(ctx context.Context) error {
		return p.rpcClient.CallContext(ctx, &accounts, "eth_accounts")
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (uint64, error) {
	var id uint64
	err := p.retry(ctx, "eth_chainId", func(ctx context.Context) error {
		v, err := p.ethClient.ChainID(ctx)
		if err != nil {
			return err
		}
		if !v.IsUint64() {
			return fmt.Errorf("chain id %s out of range", v)
		}
		id = v.Uint64()
		return nil
	})
	return id, err
}

func (p *RPCProvider) SwitchChain(ctx context.Context, chainIDHex string) error {
	params := map[string]string{"chainId": chainIDHex}
	err := p.rpcClient.CallContext(ctx, nil, "wallet_switchEthereumChain", params)
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == ChainNotAddedCode {
		return fmt.Errorf("%w: %v", ErrChainNotAdded, err)
	}
	return err
}

func (p *RPCProvider) AddChain(ctx context.Context, params AddChainParams) error {
	return p.rpcClient.CallContext(ctx, nil, "wallet_addEthereumChain", params)
}

// Events starts the polling loop on first use.
func (p *RPCProvider) Events() <-chan Event {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.poll()
	})
	return p.events
}

func (p *RPCProvider) poll() {
	defer p.wg.Done()
	defer close(p.events)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	var (
		primed      bool
		lastAccount string
		lastChain   uint64
	)
	for {
		accounts, err := p.Accounts(p.ctx)
		if err == nil {
			var chainID uint64
			chainID, err = p.ChainID(p.ctx)
			if err == nil {
				account := ""
				if len(accounts) > 0 {
					account = accounts[0]
				}
				if primed && account != lastAccount {
					p.emit(Event{Kind: AccountsChanged, Accounts: accounts})
				}
				if primed && chainID != lastChain {
					p.emit(Event{Kind: ChainChanged, ChainID: chains.ChainIDHex(chainID)})
				}
				primed, lastAccount, lastChain = true, account, chainID
			}
		}
		if err != nil && p.ctx.Err() == nil {
			p.logger.Warn("poll wallet provider", zap.Error(err))
		}

		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *RPCProvider) emit(ev Event) {
	select {
	case p.events <- ev:
	case <-p.ctx.Done():
	}
}
