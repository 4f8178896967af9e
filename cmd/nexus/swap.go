package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusSwap/internal/chains"
	"nexusSwap/internal/format"
	"nexusSwap/internal/model"
	"nexusSwap/internal/price"
	"nexusSwap/internal/swap"
	"nexusSwap/internal/wallet"
)

func addQuoteFlags(cmd *cobra.Command) {
	cmd.Flags().String("in", "", "input token symbol or address (default: first token of the chain)")
	cmd.Flags().String("out", "", "output token symbol or address (default: second token of the chain)")
	cmd.Flags().String("amount", "", "amount to trade")
	cmd.Flags().Bool("exact-out", false, "treat --amount as the desired output")
	cmd.Flags().Float64("slippage", 0.5, "slippage tolerance in percent")
	cmd.Flags().Int("deadline", 20, "transaction deadline in minutes")
	cmd.Flags().Bool("expert", false, "allow trades with very high price impact")
	cmd.Flags().Duration("quote-latency", 300*time.Millisecond, "simulated quote latency")
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := runQuote(cmd, a)
			if err != nil {
				return err
			}
			printTrade(cmd.OutOrStdout(), st)
			return nil
		},
	}
	addQuoteFlags(cmd)
	return cmd
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote and execute a simulated swap",
		RunE:  runSwap,
	}
	addQuoteFlags(cmd)
	cmd.Flags().String("from", "", "wallet address (default: a generated account)")
	cmd.Flags().String("balance", "1000000", "input token balance available to the wallet")
	return cmd
}

// runQuote drives a swap store through token selection and one amount
// change, then waits for the quote to settle.
func runQuote(cmd *cobra.Command, a *app) (swap.State, error) {
	chainID := a.cfg.ChainID
	if !chains.IsSupported(chainID) {
		return swap.State{}, fmt.Errorf("unsupported chain %d", chainID)
	}
	flags := cmd.Flags()
	inQuery, _ := flags.GetString("in")
	outQuery, _ := flags.GetString("out")
	value, _ := flags.GetString("amount")
	exactOut, _ := flags.GetBool("exact-out")
	expert, _ := flags.GetBool("expert")

	reg := prometheus.NewRegistry()
	store := swap.NewStore(swap.Config{
		Latency: a.cfg.QuoteLatency,
		Settings: model.SwapSettings{
			SlippageTolerance: a.cfg.Slippage,
			Deadline:          a.cfg.Deadline,
			ExpertMode:        expert,
		},
		Impact:  price.RandomImpact(a.rng),
		Metrics: swap.NewMetrics(reg),
	}, price.NewStaticSource(), a.logger)
	defer store.Close()

	store.InitializeTokens(chainID)
	if inQuery != "" {
		t, err := resolveToken(chainID, inQuery)
		if err != nil {
			return swap.State{}, err
		}
		store.SetInputToken(&t)
	}
	if outQuery != "" {
		t, err := resolveToken(chainID, outQuery)
		if err != nil {
			return swap.State{}, err
		}
		store.SetOutputToken(&t)
	}
	if exactOut {
		store.SetOutputAmount(value)
	} else {
		store.SetInputAmount(value)
	}
	store.Wait()

	logMetrics(a.logger, reg)
	st := store.State()
	if st.QuoteErr != nil {
		return st, st.QuoteErr
	}
	return st, nil
}

func runSwap(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := runQuote(cmd, a)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printTrade(out, st)

	store, err := a.walletStore(ctx)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	if err := connectWallet(ctx, a, store, from); err != nil {
		return err
	}

	balance, _ := cmd.Flags().GetString("balance")
	btn := swap.Gate(st, store.State().IsConnected, balance, false)
	if btn.Disabled {
		return fmt.Errorf("swap unavailable: %s", btn.Label)
	}
	if btn.Label != "Swap" {
		a.logger.Warn("swap proceeding with warning", zap.String("warning", btn.Label))
	}

	desc := fmt.Sprintf("Swap %s %s for %s %s",
		format.NumberString(st.InputAmount, 4, false), st.InputToken.Symbol,
		format.NumberString(st.OutputAmount, 4, false), st.OutputToken.Symbol,
	)
	tx, err := simulateTransaction(ctx, a, store, model.TxSwap, desc, nil)
	if err != nil {
		return err
	}
	printTransaction(out, tx)
	return nil
}

// connectWallet connects address, or a generated account when address is
// empty, on the configured chain.
func connectWallet(ctx context.Context, a *app, store *wallet.Store, address string) error {
	if address == "" {
		conn := wallet.NewConnector(store, nil, 0, a.logger)
		if _, err := conn.ConnectSimulated(ctx); err != nil {
			return err
		}
	} else {
		store.Connect(address, a.cfg.ChainID, nil)
	}
	if !store.SwitchChain(a.cfg.ChainID) {
		return fmt.Errorf("unsupported chain %d", a.cfg.ChainID)
	}
	return nil
}

// simulateTransaction records a pending transaction, runs exec and marks
// the transaction with the outcome. A nil exec waits out the configured
// transaction latency.
func simulateTransaction(ctx context.Context, a *app, store *wallet.Store, kind model.TransactionType, desc string, exec func(context.Context) error) (model.Transaction, error) {
	if exec == nil {
		exec = func(ctx context.Context) error { return wait(ctx, a.cfg.TxLatency) }
	}
	st := store.State()
	hash := simulatedHash(a)
	store.AddTransaction(ctx, wallet.TransactionInput{
		Hash:        hash,
		Status:      model.TxPending,
		Type:        kind,
		Description: desc,
		ChainID:     st.ChainID,
		From:        st.Address,
	})

	execErr := exec(ctx)
	status := model.TxSuccess
	if execErr != nil {
		status = model.TxError
	}
	store.UpdateTransaction(context.WithoutCancel(ctx), hash, wallet.TransactionPatch{Status: &status})

	tx, _ := store.LatestTransaction()
	if execErr != nil {
		return tx, fmt.Errorf("transaction %s: %w", hash, execErr)
	}
	return tx, nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func simulatedHash(a *app) string {
	seed := make([]byte, 32)
	a.rng.Read(seed)
	return crypto.Keccak256Hash(seed).Hex()
}

func resolveToken(chainID uint64, query string) (model.Token, error) {
	if t, ok := chains.TokenBySymbol(chainID, strings.ToUpper(query)); ok {
		return t, nil
	}
	for _, t := range chains.SearchTokens(chainID, query, nil) {
		if strings.EqualFold(t.Address, query) {
			return t, nil
		}
	}
	return model.Token{}, fmt.Errorf("token %q not found on chain %d", query, chainID)
}

func printTrade(w io.Writer, st swap.State) {
	if st.Trade == nil {
		fmt.Fprintln(w, "no trade: enter an amount")
		return
	}
	t := st.Trade
	fmt.Fprintf(w, "%s %s -> %s %s\n",
		format.NumberString(t.InputAmount, 6, false), t.InputToken.Symbol,
		format.NumberString(t.OutputAmount, 6, false), t.OutputToken.Symbol,
	)
	fmt.Fprintf(w, "rate:              1 %s = %s %s\n", t.InputToken.Symbol, format.Number(t.Price, 6, false), t.OutputToken.Symbol)
	fmt.Fprintf(w, "price impact:      %s%% (%s)\n", format.Number(t.PriceImpact, 2, false), format.ImpactSeverity(t.PriceImpact))
	fmt.Fprintf(w, "minimum received:  %s %s\n", format.NumberString(t.MinimumReceived, 6, false), t.OutputToken.Symbol)
	fmt.Fprintf(w, "liquidity fee:     %s %s\n", format.NumberString(t.LiquidityProviderFee, 6, false), t.InputToken.Symbol)
	fmt.Fprintf(w, "route:             %s\n", strings.Join(t.Route, " > "))
	if st.HighSlippage() {
		fmt.Fprintf(w, "warning: slippage tolerance %s%% is high\n", decimal.NewFromFloat(st.Settings.SlippageTolerance).String())
	}
}

func printTransaction(w io.Writer, tx model.Transaction) {
	fmt.Fprintf(w, "%s  %-15s %-8s %s\n", tx.ID, tx.Type, tx.Status, tx.Description)
	fmt.Fprintf(w, "  hash: %s\n", tx.Hash)
	fmt.Fprintf(w, "  from: %s\n", format.ShortenAddress(tx.From, 4))
	fmt.Fprintf(w, "  view: %s\n", chains.ExplorerTxURL(tx.ChainID, tx.Hash))
}

func logMetrics(logger *zap.Logger, reg *prometheus.Registry) {
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			if c := m.GetCounter(); c != nil {
				fields = append(fields, zap.Float64("value", c.GetValue()))
			}
			if h := m.GetHistogram(); h != nil {
				fields = append(fields, zap.Uint64("count", h.GetSampleCount()))
			}
			logger.Debug("metric", fields...)
		}
	}
}
