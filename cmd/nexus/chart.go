package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"nexusSwap/internal/analytics"
	"nexusSwap/internal/format"
	"nexusSwap/internal/price"
)

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show a price chart summary for a token pair",
		RunE:  runChart,
	}
	cmd.Flags().String("in", "ETH", "input token symbol")
	cmd.Flags().String("out", "USDC", "output token symbol")
	cmd.Flags().String("timeframe", "1D", "chart range (1H, 1D, 1W, 1M, 1Y)")
	cmd.Flags().Bool("watch", false, "keep refreshing until interrupted")
	cmd.Flags().String("schedule", analytics.DefaultRefreshSchedule, "refresh schedule used with --watch")
	return cmd
}

func runChart(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := cmd.Flags()
	in, _ := flags.GetString("in")
	out, _ := flags.GetString("out")
	tfName, _ := flags.GetString("timeframe")
	watch, _ := flags.GetBool("watch")
	schedule, _ := flags.GetString("schedule")
	tf := analytics.Timeframe(strings.ToUpper(tfName))
	in, out = strings.ToUpper(in), strings.ToUpper(out)

	svc := analytics.NewChartService(analytics.Config{Latency: a.cfg.QuoteLatency}, price.NewStaticSource(), a.rng, a.logger)
	w := cmd.OutOrStdout()

	if !watch {
		data, err := svc.Fetch(ctx, in, out, tf)
		if err != nil {
			return err
		}
		printChart(w, in, out, tf, data)
		return nil
	}

	refresher := analytics.NewRefresher(svc, in, out, tf, schedule, func(data analytics.ChartData) {
		printChart(w, in, out, tf, data)
	}, a.logger)
	refresher.RunNow(ctx)
	if msg := refresher.Error(); msg != "" {
		return errors.New(msg)
	}
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}
	defer refresher.Stop()

	<-ctx.Done()
	return nil
}

func printChart(w io.Writer, in, out string, tf analytics.Timeframe, data analytics.ChartData) {
	fmt.Fprintf(w, "%s/%s %s  price %s  change %s  high %s  low %s  volume %s\n",
		in, out, tf,
		format.Number(data.CurrentPrice, 6, false),
		format.Percentage(data.PriceChange24h, 2),
		format.Number(data.High24h, 6, false),
		format.Number(data.Low24h, 6, false),
		format.Currency(data.Volume24h, 2, true),
	)
}
