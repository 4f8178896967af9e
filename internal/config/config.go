package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"nexusSwap/internal/model"
	"nexusSwap/internal/swap"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	ChainID         uint64
	LogLevel        string
	StorageFile     string
	StorageName     string
	PGDSN           string
	RedisAddr       string
	RedisTTL        time.Duration
	RPCURL          string
	QuoteLatency    time.Duration
	PoolLatency     time.Duration
	PositionLatency time.Duration
	TxLatency       time.Duration
	Slippage        float64
	Deadline        int
	Seed            int64
	Favorites       []string
	MaxRetries      int
	RetryBackoff    time.Duration
	PollInterval    time.Duration
}

// Load merges .env, config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(1))
	v.SetDefault("log-level", "info")
	v.SetDefault("storage-file", "./data/nexus-wallet-storage.json")
	v.SetDefault("storage-name", "nexus-wallet-storage")
	v.SetDefault("redis-ttl", 5*time.Minute)
	v.SetDefault("quote-latency", 300*time.Millisecond)
	v.SetDefault("pool-latency", 800*time.Millisecond)
	v.SetDefault("position-latency", 600*time.Millisecond)
	v.SetDefault("tx-latency", 2*time.Second)
	v.SetDefault("slippage", 0.5)
	v.SetDefault("deadline", 20)
	v.SetDefault("seed", int64(0))
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("poll-interval", 2*time.Second)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		ChainID:         v.GetUint64("chain-id"),
		LogLevel:        v.GetString("log-level"),
		StorageFile:     v.GetString("storage-file"),
		StorageName:     v.GetString("storage-name"),
		PGDSN:           v.GetString("pg-dsn"),
		RedisAddr:       v.GetString("redis-addr"),
		RedisTTL:        v.GetDuration("redis-ttl"),
		RPCURL:          v.GetString("rpc"),
		QuoteLatency:    v.GetDuration("quote-latency"),
		PoolLatency:     v.GetDuration("pool-latency"),
		PositionLatency: v.GetDuration("position-latency"),
		TxLatency:       v.GetDuration("tx-latency"),
		Slippage:        v.GetFloat64("slippage"),
		Deadline:        v.GetInt("deadline"),
		Seed:            v.GetInt64("seed"),
		Favorites:       stringList(v, "favorites"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		PollInterval:    v.GetDuration("poll-interval"),
	}

	settings := model.SwapSettings{SlippageTolerance: cfg.Slippage, Deadline: cfg.Deadline}
	if err := swap.ValidateSettings(settings); err != nil {
		return Config{}, fmt.Errorf("swap settings: %w", err)
	}

	return cfg, nil
}

// stringList accepts a list or a comma separated string and drops blanks.
func stringList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	case []interface{}:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	}

	var out []string
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
