package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusSwap/internal/chains"
	"nexusSwap/internal/format"
	"nexusSwap/internal/model"
	"nexusSwap/internal/storage"
	"nexusSwap/internal/wallet"
)

func newChainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List supported chains and their popular tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tHEX\tNAME\tNATIVE\tEXPLORER")
			for _, c := range chains.Supported() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					chains.FormatChainID(c.ID), chains.ChainIDHex(c.ID), c.Name, c.NativeCurrency.Symbol, c.BlockExplorerURL)
			}
			_ = tw.Flush()

			search, _ := cmd.Flags().GetString("search")
			if !cmd.Flags().Changed("chain-id") && search == "" {
				return nil
			}
			chain, ok := chains.ChainByID(a.cfg.ChainID)
			if !ok {
				return fmt.Errorf("unsupported chain %d", a.cfg.ChainID)
			}
			tokens := chains.SortFavorites(chains.SearchTokens(chain.ID, search, nil), a.cfg.Favorites)

			fmt.Fprintf(out, "\n%s tokens\n", chain.Name)
			tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tNAME\tDECIMALS\tADDRESS")
			for _, t := range tokens {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Symbol, t.Name, t.Decimals, t.Address)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("search", "", "filter tokens by symbol, name or address")
	cmd.Flags().StringSlice("favorites", nil, "favorite token addresses listed first")
	return cmd
}

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Inspect the wallet transaction log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWalletStore(cmd, func(_ context.Context, _ *app, store *wallet.Store) error {
				printTransactions(cmd.OutOrStdout(), store)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the transaction log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWalletStore(cmd, func(ctx context.Context, a *app, store *wallet.Store) error {
				n := len(store.Transactions())
				store.ClearTransactions(ctx)
				a.logger.Info("transactions cleared", zap.Int("count", n))
				return nil
			})
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Append the transaction log to a JSONL file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("out")
			filter, err := exportFilter(cmd, time.Now())
			if err != nil {
				return err
			}
			return withWalletStore(cmd, func(_ context.Context, a *app, store *wallet.Store) error {
				txs := store.Transactions()
				n, err := storage.NewJSONLExporter(path, filter).Export(txs)
				if err != nil {
					return err
				}
				a.logger.Info("transactions exported",
					zap.String("out", path),
					zap.Int("count", n),
					zap.Int("skipped", len(txs)-n),
				)
				return nil
			})
		},
	}
	exportCmd.Flags().String("out", "./data/transactions.jsonl", "output JSONL path")
	exportCmd.Flags().Uint64("chain", 0, "only export transactions on this chain id")
	exportCmd.Flags().String("status", "", "only export transactions with this status (pending, success, error)")
	exportCmd.Flags().String("type", "", "only export transactions of this type (swap, addLiquidity, removeLiquidity, approve)")
	exportCmd.Flags().Duration("since", 0, "only export transactions newer than this age")

	cmd.AddCommand(listCmd, clearCmd, exportCmd)
	return cmd
}

func exportFilter(cmd *cobra.Command, now time.Time) (storage.TransactionFilter, error) {
	chainID, _ := cmd.Flags().GetUint64("chain")
	status, _ := cmd.Flags().GetString("status")
	kind, _ := cmd.Flags().GetString("type")
	since, _ := cmd.Flags().GetDuration("since")

	filter := storage.TransactionFilter{
		ChainID: chainID,
		Status:  model.TransactionStatus(status),
		Type:    model.TransactionType(kind),
	}
	switch filter.Status {
	case "", model.TxPending, model.TxSuccess, model.TxError:
	default:
		return filter, fmt.Errorf("unknown transaction status %q", status)
	}
	switch filter.Type {
	case "", model.TxSwap, model.TxAddLiquidity, model.TxRemoveLiquidity, model.TxApprove:
	default:
		return filter, fmt.Errorf("unknown transaction type %q", kind)
	}
	if since < 0 {
		return filter, fmt.Errorf("since must not be negative: %s", since)
	}
	if since > 0 {
		filter.Since = now.Add(-since).UnixMilli()
	}
	return filter, nil
}

func withWalletStore(cmd *cobra.Command, fn func(context.Context, *app, *wallet.Store) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := a.walletStore(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, a, store)
}

func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "wallet JSON-RPC endpoint (default: simulated wallet)")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts for provider reads")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().Duration("poll-interval", 2*time.Second, "provider event poll interval")
	cmd.Flags().Duration("connect-latency", time.Second, "simulated connection latency")
}

func newWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Connect a wallet and manage its network",
	}

	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, _ := cmd.Flags().GetDuration("watch")
			return withConnector(cmd, func(ctx context.Context, a *app, conn *wallet.Connector, store *wallet.Store) error {
				if watch > 0 && conn.HasProvider() {
					watchCtx, cancel := context.WithTimeout(ctx, watch)
					defer cancel()
					if err := conn.Watch(watchCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
						return err
					}
				}
				printWallet(cmd.OutOrStdout(), store)
				return nil
			})
		},
	}
	addProviderFlags(connectCmd)
	connectCmd.Flags().Duration("watch", 0, "follow provider events for this long")

	switchCmd := &cobra.Command{
		Use:   "switch",
		Short: "Switch the wallet to another chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, _ := cmd.Flags().GetUint64("to")
			return withConnector(cmd, func(ctx context.Context, _ *app, conn *wallet.Connector, store *wallet.Store) error {
				if conn.HasProvider() {
					if err := conn.SwitchToChain(ctx, to); err != nil {
						return fmt.Errorf("%s: %w", conn.Error(), err)
					}
				} else if !store.SwitchChain(to) {
					return fmt.Errorf("unsupported chain %d", to)
				}
				printWallet(cmd.OutOrStdout(), store)
				return nil
			})
		},
	}
	addProviderFlags(switchCmd)
	switchCmd.Flags().Uint64("to", chains.DefaultChainID, "target chain id")

	cmd.AddCommand(connectCmd, switchCmd)
	return cmd
}

// withConnector connects through the JSON-RPC provider when --rpc is set,
// otherwise through a simulated session.
func withConnector(cmd *cobra.Command, fn func(context.Context, *app, *wallet.Connector, *wallet.Store) error) error {
	latency, _ := cmd.Flags().GetDuration("connect-latency")
	return withWalletStore(cmd, func(ctx context.Context, a *app, store *wallet.Store) error {
		if a.cfg.RPCURL == "" {
			conn := wallet.NewConnector(store, nil, latency, a.logger)
			if _, err := conn.ConnectSimulated(ctx); err != nil {
				return err
			}
			return fn(ctx, a, conn, store)
		}

		provider, err := wallet.DialRPCProvider(ctx, a.cfg.RPCURL, wallet.RPCConfig{
			PollInterval: a.cfg.PollInterval,
			MaxRetries:   a.cfg.MaxRetries,
			RetryBackoff: a.cfg.RetryBackoff,
		}, a.logger)
		if err != nil {
			return err
		}
		defer provider.Close()

		conn := wallet.NewConnector(store, provider, latency, a.logger)
		if !conn.AutoConnect(ctx) {
			if err := conn.Connect(ctx); err != nil {
				return fmt.Errorf("%s: %w", conn.Error(), err)
			}
		}
		return fn(ctx, a, conn, store)
	})
}

func printWallet(w io.Writer, store *wallet.Store) {
	st := store.State()
	fmt.Fprintf(w, "address:   %s\n", st.Address)
	chain, ok := store.CurrentChain()
	if !ok {
		fmt.Fprintf(w, "chain:     %d (unsupported)\n", st.ChainID)
		return
	}
	fmt.Fprintf(w, "chain:     %s (%s)\n", chain.Name, chains.ChainIDHex(chain.ID))
	fmt.Fprintf(w, "explorer:  %s\n", chains.ExplorerAddressURL(chain.ID, st.Address))
}

func printTransactions(w io.Writer, store *wallet.Store) {
	txs := store.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(w, "no transactions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tSTATUS\tCHAIN\tHASH\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			time.UnixMilli(tx.Timestamp).Format(time.RFC3339),
			tx.Type, tx.Status, tx.ChainID,
			format.ShortenAddress(tx.Hash, 6),
			format.TruncateText(tx.Description, 48),
		)
	}
	_ = tw.Flush()
}
