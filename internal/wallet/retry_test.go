package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectedError struct{}

func (rejectedError) Error() string  { return "User rejected the request" }
func (rejectedError) ErrorCode() int { return 4001 }

func TestProviderRetry(t *testing.T) {
	p := NewRPCProvider(nil, RPCConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}, nil)
	defer p.Close()

	t.Run("transient errors are retried", func(t *testing.T) {
		calls := 0
		err := p.retry(context.Background(), "eth_accounts", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection reset")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := p.retry(context.Background(), "eth_accounts", func(context.Context) error {
			calls++
			return errors.New("timeout")
		})
		assert.EqualError(t, err, "timeout")
		assert.Equal(t, 3, calls)
	})

	t.Run("rpc error replies are final", func(t *testing.T) {
		calls := 0
		err := p.retry(context.Background(), "eth_requestAccounts", func(context.Context) error {
			calls++
			return rejectedError{}
		})
		assert.ErrorIs(t, err, rejectedError{})
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation stops the backoff", func(t *testing.T) {
		slow := NewRPCProvider(nil, RPCConfig{MaxRetries: 5, RetryBackoff: time.Hour}, nil)
		defer slow.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := slow.retry(ctx, "eth_chainId", func(context.Context) error {
			return errors.New("unreachable")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
