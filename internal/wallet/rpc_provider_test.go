package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chainNotAddedError struct{}

func (chainNotAddedError) Error() string  { return "Unrecognized chain ID" }
func (chainNotAddedError) ErrorCode() int { return ChainNotAddedCode }

type walletBackend struct {
	mu       sync.Mutex
	accounts []string
	chainID  uint64
	known    map[string]bool
}

func (b *walletBackend) setAccounts(accounts []string) {
	b.mu.Lock()
	b.accounts = accounts
	b.mu.Unlock()
}

type ethService struct{ b *walletBackend }

func (s *ethService) RequestAccounts() []string {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	return s.b.accounts
}

func (s *ethService) Accounts() []string {
	return s.RequestAccounts()
}

func (s *ethService) ChainId() hexutil.Uint64 {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	return hexutil.Uint64(s.b.chainID)
}

type walletService struct{ b *walletBackend }

func (s *walletService) SwitchEthereumChain(params map[string]string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	id := params["chainId"]
	if !s.b.known[id] {
		return chainNotAddedError{}
	}
	v, err := hexutil.DecodeUint64(id)
	if err != nil {
		return err
	}
	s.b.chainID = v
	return nil
}

func (s *walletService) AddEthereumChain(params AddChainParams) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.b.known[params.ChainID] = true
	v, err := hexutil.DecodeUint64(params.ChainID)
	if err != nil {
		return err
	}
	s.b.chainID = v
	return nil
}

func newInProcProvider(t *testing.T, b *walletBackend, cfg RPCConfig) *RPCProvider {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethService{b: b}))
	require.NoError(t, server.RegisterName("wallet", &walletService{b: b}))
	t.Cleanup(server.Stop)

	p := NewRPCProvider(rpc.DialInProc(server), cfg, nil)
	t.Cleanup(p.Close)
	return p
}

func TestRPCProviderCalls(t *testing.T) {
	b := &walletBackend{
		accounts: []string{"0x00000000000000000000000000000000000000aa"},
		chainID:  1,
		known:    map[string]bool{"0x1": true, "0x38": true},
	}
	p := newInProcProvider(t, b, RPCConfig{})
	ctx := context.Background()

	accounts, err := p.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.accounts, accounts)

	id, err := p.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	require.NoError(t, p.SwitchChain(ctx, "0x38"))
	id, err = p.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(56), id)

	err = p.SwitchChain(ctx, "0x89")
	assert.ErrorIs(t, err, ErrChainNotAdded)
}

func TestRPCProviderWithConnector(t *testing.T) {
	b := &walletBackend{
		accounts: []string{"0x00000000000000000000000000000000000000aa"},
		chainID:  1,
		known:    map[string]bool{"0x1": true},
	}
	p := newInProcProvider(t, b, RPCConfig{})
	store, _ := newTestStore(nil)
	conn := NewConnector(store, p, 0, nil)

	require.NoError(t, conn.Connect(context.Background()))
	require.NoError(t, conn.SwitchToChain(context.Background(), 137))
	assert.Equal(t, uint64(137), store.State().ChainID)

	b.mu.Lock()
	assert.True(t, b.known["0x89"])
	b.mu.Unlock()
}

func TestRPCProviderPollsEvents(t *testing.T) {
	b := &walletBackend{
		accounts: []string{"0x00000000000000000000000000000000000000aa"},
		chainID:  1,
		known:    map[string]bool{},
	}
	p := newInProcProvider(t, b, RPCConfig{PollInterval: 10 * time.Millisecond})
	events := p.Events()

	time.Sleep(100 * time.Millisecond)
	b.setAccounts(nil)

	select {
	case ev := <-events:
		assert.Equal(t, AccountsChanged, ev.Kind)
		assert.Empty(t, ev.Accounts)
	case <-time.After(2 * time.Second):
		t.Fatal("no accounts event")
	}
}
