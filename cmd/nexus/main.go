package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nexusSwap/internal/config"
	"nexusSwap/internal/storage"
	"nexusSwap/internal/storage/postgres"
	"nexusSwap/internal/wallet"
)

func main() {
	root := &cobra.Command{
		Use:          "nexus",
		Short:        "NexusSwap DEX client",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file path")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Uint64("chain-id", 1, "chain id")
	pf.String("storage-file", "./data/nexus-wallet-storage.json", "wallet storage file")
	pf.String("storage-name", "nexus-wallet-storage", "wallet storage record name")
	pf.String("pg-dsn", "", "Postgres DSN (overrides the storage file)")
	pf.Int64("seed", 0, "random seed, 0 means time based")
	pf.Duration("tx-latency", 2*time.Second, "simulated transaction latency")

	root.AddCommand(
		newChainsCmd(),
		newQuoteCmd(),
		newSwapCmd(),
		newPoolsCmd(),
		newPositionsCmd(),
		newDepositCmd(),
		newWithdrawCmd(),
		newTxCmd(),
		newWalletCmd(),
		newChartCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once config is loaded.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	rng    *rand.Rand
	pg     *postgres.Store

	closers []func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

// postgres opens the configured database once. It returns nil when no DSN
// is set.
func (a *app) postgres(ctx context.Context) (*postgres.Store, error) {
	if a.cfg.PGDSN == "" {
		return nil, nil
	}
	if a.pg != nil {
		return a.pg, nil
	}
	pg, err := postgres.NewStore(ctx, a.cfg.PGDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, pg.Close)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	a.pg = pg
	return pg, nil
}

// walletStore opens the configured storage backend and hydrates the
// transaction log from it.
func (a *app) walletStore(ctx context.Context) (*wallet.Store, error) {
	pg, err := a.postgres(ctx)
	if err != nil {
		return nil, err
	}
	var backend wallet.Storage = storage.NewFileStore(a.cfg.StorageFile)
	if pg != nil {
		backend = pg
	}

	store := wallet.NewStore(wallet.Config{StorageName: a.cfg.StorageName}, backend, a.logger)
	if err := store.Hydrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
