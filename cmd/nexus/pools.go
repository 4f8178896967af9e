package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusSwap/internal/analytics"
	"nexusSwap/internal/format"
	"nexusSwap/internal/model"
	"nexusSwap/internal/pool"
	"nexusSwap/internal/price"
	"nexusSwap/internal/storage/redis"
)

func addPoolFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-addr", "", "redis address for the pool cache")
	cmd.Flags().Duration("redis-ttl", 5*time.Minute, "pool cache ttl")
	cmd.Flags().Duration("pool-latency", 800*time.Millisecond, "simulated pool fetch latency")
	cmd.Flags().Duration("position-latency", 600*time.Millisecond, "simulated position fetch latency")
}

// poolStore builds a pool store over the mock reserves, behind the redis
// cache when one is configured.
func (a *app) poolStore() (*pool.Store, error) {
	mock := pool.NewMockSource(a.rng)
	var reserves pool.ReserveSource = mock
	if a.cfg.RedisAddr != "" {
		cache, err := redis.NewPoolCache(a.cfg.RedisAddr, a.cfg.RedisTTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = cache.Close() })
		reserves = pool.NewCachedSource(mock, cache, a.logger)
	}
	return pool.NewStore(pool.Config{
		PoolLatency:     a.cfg.PoolLatency,
		PositionLatency: a.cfg.PositionLatency,
		TxLatency:       a.cfg.TxLatency,
	}, reserves, mock, a.logger), nil
}

func newPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List liquidity pools",
		RunE:  runPools,
	}
	addPoolFlags(cmd)
	cmd.Flags().String("sort", "tvl", "sort field (tvl, volume24h, fees24h, apr)")
	cmd.Flags().Bool("asc", false, "sort ascending")
	cmd.Flags().Bool("snapshot", false, "record the pools in postgres")
	cmd.Flags().String("history", "", "show 30 day history of a pool id")
	return cmd
}

func runPools(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sortName, _ := cmd.Flags().GetString("sort")
	field, err := pool.ParseSortField(sortName)
	if err != nil {
		return err
	}
	asc, _ := cmd.Flags().GetBool("asc")

	ps, err := a.poolStore()
	if err != nil {
		return err
	}
	if err := ps.FetchPools(ctx, a.cfg.ChainID); err != nil {
		return err
	}
	pools := ps.State().Pools

	snapshot, _ := cmd.Flags().GetBool("snapshot")
	if snapshot {
		pg, err := a.postgres(ctx)
		if err != nil {
			return err
		}
		if pg == nil {
			return fmt.Errorf("--snapshot requires --pg-dsn")
		}
		if err := pg.UpsertPoolSnapshots(ctx, a.cfg.ChainID, pools, time.Now()); err != nil {
			return fmt.Errorf("snapshot pools: %w", err)
		}
		a.logger.Info("pool snapshot stored", zap.Uint64("chain", a.cfg.ChainID), zap.Int("pools", len(pools)))
	}

	out := cmd.OutOrStdout()
	printPools(out, pool.SortBy(pools, field, asc))
	printSummary(out, pool.Summarize(pools))

	historyID, _ := cmd.Flags().GetString("history")
	if historyID == "" {
		return nil
	}
	if !ps.SelectPool(historyID) {
		return fmt.Errorf("pool %s not found", historyID)
	}
	svc := analytics.NewChartService(analytics.Config{PoolLatency: a.cfg.PoolLatency}, price.NewStaticSource(), a.rng, a.logger)
	hist, err := svc.FetchPool(ctx, historyID)
	if err != nil {
		return err
	}
	printPoolHistory(out, hist)
	return nil
}

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List liquidity positions of an address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			address, _ := cmd.Flags().GetString("address")
			ps, err := a.poolStore()
			if err != nil {
				return err
			}
			if err := ps.FetchPools(ctx, a.cfg.ChainID); err != nil {
				return err
			}
			if err := ps.FetchPositions(ctx, address, a.cfg.ChainID); err != nil {
				return err
			}
			printPositions(cmd.OutOrStdout(), ps.State().Positions)
			return nil
		},
	}
	addPoolFlags(cmd)
	cmd.Flags().String("address", "", "wallet address")
	return cmd
}

func newDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Add liquidity to a pool",
		RunE:  runDeposit,
	}
	addPoolFlags(cmd)
	cmd.Flags().String("pool", "", "pool id or token pair such as ETH/USDC")
	cmd.Flags().String("amount0", "", "token0 amount")
	cmd.Flags().String("amount1", "", "token1 amount (used when --amount0 is empty)")
	cmd.Flags().String("balance0", "1000000", "token0 balance available to the wallet")
	cmd.Flags().String("balance1", "1000000", "token1 balance available to the wallet")
	cmd.Flags().String("from", "", "wallet address (default: a generated account)")
	return cmd
}

func runDeposit(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := cmd.Flags()
	ref, _ := flags.GetString("pool")
	amount0, _ := flags.GetString("amount0")
	amount1, _ := flags.GetString("amount1")
	balance0, _ := flags.GetString("balance0")
	balance1, _ := flags.GetString("balance1")
	from, _ := flags.GetString("from")

	ps, err := a.poolStore()
	if err != nil {
		return err
	}
	if err := ps.FetchPools(ctx, a.cfg.ChainID); err != nil {
		return err
	}
	p, err := findPool(ps.State().Pools, ref)
	if err != nil {
		return err
	}
	ps.SelectPool(p.ID)
	ps.SetShowAddLiquidityModal(true)
	if amount0 != "" {
		ps.SetToken0Amount(amount0)
	} else {
		ps.SetToken1Amount(amount1)
	}

	st := ps.State()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "deposit %s %s + %s %s\n",
		format.NumberString(st.Token0Amount, 6, false), p.Token0.Symbol,
		format.NumberString(st.Token1Amount, 6, false), p.Token1.Symbol,
	)
	if preview, ok := ps.Preview(); ok {
		fmt.Fprintf(out, "share of pool:  %s%%\n", format.Number(preview.ShareOfPool, 4, false))
		fmt.Fprintf(out, "lp tokens:      %s\n", format.NumberString(preview.LPTokens, 6, false))
	}
	if !pool.ValidDeposit(st.Token0Amount, st.Token1Amount, balance0, balance1) {
		return fmt.Errorf("add liquidity to %s: %w", p.ID, pool.ErrInvalidDeposit)
	}

	store, err := a.walletStore(ctx)
	if err != nil {
		return err
	}
	if err := connectWallet(ctx, a, store, from); err != nil {
		return err
	}

	desc := fmt.Sprintf("Add %s %s and %s %s liquidity",
		format.NumberString(st.Token0Amount, 4, false), p.Token0.Symbol,
		format.NumberString(st.Token1Amount, 4, false), p.Token1.Symbol,
	)
	tx, err := simulateTransaction(ctx, a, store, model.TxAddLiquidity, desc, func(ctx context.Context) error {
		_, err := ps.AddLiquidity(ctx, balance0, balance1)
		return err
	})
	if err != nil {
		return err
	}
	printTransaction(out, tx)
	return nil
}

func newWithdrawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Remove liquidity from a pool",
		RunE:  runWithdraw,
	}
	addPoolFlags(cmd)
	cmd.Flags().String("pool", "", "pool id or token pair such as ETH/USDC")
	cmd.Flags().Float64("pct", 100, "percentage of the position to remove")
	cmd.Flags().String("from", "", "wallet address (default: a generated account)")
	return cmd
}

func runWithdraw(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := cmd.Flags()
	ref, _ := flags.GetString("pool")
	pct, _ := flags.GetFloat64("pct")
	from, _ := flags.GetString("from")

	store, err := a.walletStore(ctx)
	if err != nil {
		return err
	}
	if err := connectWallet(ctx, a, store, from); err != nil {
		return err
	}
	address := store.State().Address

	ps, err := a.poolStore()
	if err != nil {
		return err
	}
	if err := ps.FetchPools(ctx, a.cfg.ChainID); err != nil {
		return err
	}
	p, err := findPool(ps.State().Pools, ref)
	if err != nil {
		return err
	}
	if err := ps.FetchPositions(ctx, address, a.cfg.ChainID); err != nil {
		return err
	}
	if !holdsPool(ps.State().Positions, p.ID) {
		return fmt.Errorf("no position in pool %s for %s", p.ID, format.ShortenAddress(address, 4))
	}
	ps.SetShowRemoveLiquidityModal(true)

	desc := fmt.Sprintf("Remove %s%% of %s/%s liquidity", format.Number(pct, 2, false), p.Token0.Symbol, p.Token1.Symbol)
	tx, err := simulateTransaction(ctx, a, store, model.TxRemoveLiquidity, desc, func(ctx context.Context) error {
		return ps.RemoveLiquidity(ctx, p.ID, pct)
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printTransaction(out, tx)
	printPositions(out, ps.State().Positions)
	return nil
}

// findPool matches a pool id, or a SYM0/SYM1 pair in either order.
func findPool(pools []model.Pool, ref string) (model.Pool, error) {
	if ref == "" {
		return model.Pool{}, fmt.Errorf("--pool is required")
	}
	for _, p := range pools {
		if strings.EqualFold(p.ID, ref) {
			return p, nil
		}
	}
	a, b, ok := strings.Cut(strings.ToUpper(ref), "/")
	if ok {
		for _, p := range pools {
			s0, s1 := strings.ToUpper(p.Token0.Symbol), strings.ToUpper(p.Token1.Symbol)
			if (s0 == a && s1 == b) || (s0 == b && s1 == a) {
				return p, nil
			}
		}
	}
	return model.Pool{}, fmt.Errorf("pool %s not found", ref)
}

func holdsPool(positions []model.LiquidityPosition, poolID string) bool {
	for _, pos := range positions {
		if pos.PoolID == poolID {
			return true
		}
	}
	return false
}

func printPools(w io.Writer, pools []model.Pool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tPAIR\tTVL\tVOLUME 24H\tFEES 24H\tAPR")
	for _, p := range pools {
		fmt.Fprintf(tw, "%s\t%s/%s\t%s\t%s\t%s\t%s%% (%s)\n",
			format.TruncateText(p.ID, 24),
			p.Token0.Symbol, p.Token1.Symbol,
			format.Currency(p.TVL, 2, true),
			format.Currency(p.Volume24h, 2, true),
			format.Currency(p.Fees24h, 2, true),
			format.Number(p.APR, 2, false),
			format.AprTierOf(p.APR),
		)
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, s pool.Summary) {
	fmt.Fprintf(w, "\n%d pools  tvl %s  volume %s  fees %s  avg apr %s%%\n",
		s.Count,
		format.Currency(s.TotalTVL, 2, true),
		format.Currency(s.TotalVolume24h, 2, true),
		format.Currency(s.TotalFees24h, 2, true),
		format.Number(s.AverageAPR, 2, false),
	)
}

func printPositions(w io.Writer, positions []model.LiquidityPosition) {
	if len(positions) == 0 {
		fmt.Fprintln(w, "no positions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tAMOUNT0\tAMOUNT1\tLP TOKENS\tSHARE\tVALUE")
	for _, pos := range positions {
		fmt.Fprintf(tw, "%s/%s\t%s\t%s\t%s\t%s%%\t%s\n",
			pos.Token0.Symbol, pos.Token1.Symbol,
			format.TokenAmount(pos.Amount0, 0, 6),
			format.TokenAmount(pos.Amount1, 0, 6),
			format.NumberString(pos.LPTokens, 6, false),
			format.Number(pos.Share, 4, false),
			format.Currency(pos.ValueUSD, 2, false),
		)
	}
	_ = tw.Flush()
}

func printPoolHistory(w io.Writer, h analytics.PoolAnalytics) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDAY\tTVL\tVOLUME\tFEES")
	for i := range h.TVL {
		day := time.UnixMilli(h.TVL[i].Timestamp).UTC().Format("2006-01-02")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", day,
			format.Currency(h.TVL[i].Value, 2, true),
			format.Currency(h.Volume[i].Value, 2, true),
			format.Currency(h.Fees[i].Value, 2, true),
		)
	}
	_ = tw.Flush()
}
