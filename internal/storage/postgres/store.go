package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nexusSwap/internal/model"
)

// Store provides Postgres persistence for the wallet record and pool
// snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS wallet_storage (
	name       TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	version    INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pool_snapshots (
	chain_id     BIGINT NOT NULL,
	pool_id      TEXT NOT NULL,
	token0       TEXT NOT NULL,
	token1       TEXT NOT NULL,
	reserve0     NUMERIC NOT NULL,
	reserve1     NUMERIC NOT NULL,
	total_supply NUMERIC NOT NULL,
	tvl_usd      DOUBLE PRECISION NOT NULL,
	volume_24h   DOUBLE PRECISION NOT NULL,
	fees_24h     DOUBLE PRECISION NOT NULL,
	apr          DOUBLE PRECISION NOT NULL,
	snapshot_ts  TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_id, snapshot_ts)
);`

// EnsureSchema creates the tables used by the store.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load returns the wallet record stored under name.
func (s *Store) Load(ctx context.Context, name string) (model.WalletRecord, bool, error) {
	if name == "" {
		return model.WalletRecord{}, false, fmt.Errorf("storage name required")
	}
	var raw []byte
	row := s.pool.QueryRow(ctx, `SELECT state FROM wallet_storage WHERE name=$1`, name)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WalletRecord{}, false, nil
		}
		return model.WalletRecord{}, false, err
	}
	var rec model.WalletRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.WalletRecord{}, false, fmt.Errorf("parse wallet storage %q: %w", name, err)
	}
	return rec, true, nil
}

// Save upserts the wallet record for name.
func (s *Store) Save(ctx context.Context, name string, rec model.WalletRecord) error {
	if name == "" {
		return fmt.Errorf("storage name required")
	}
	if rec.Transactions == nil {
		rec.Transactions = []model.Transaction{}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet storage: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO wallet_storage (name, state, version, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (name) DO UPDATE
		SET state = EXCLUDED.state, updated_at = now()
	`, name, raw)
	return err
}

// UpsertPoolSnapshots records the pools of a chain at ts.
func (s *Store) UpsertPoolSnapshots(ctx context.Context, chainID uint64, pools []model.Pool, ts time.Time) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pools {
		batch.Queue(`
			INSERT INTO pool_snapshots (
				chain_id, pool_id, token0, token1, reserve0, reserve1, total_supply,
				tvl_usd, volume_24h, fees_24h, apr, snapshot_ts, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
			ON CONFLICT (chain_id, pool_id, snapshot_ts)
			DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				tvl_usd = EXCLUDED.tvl_usd,
				volume_24h = EXCLUDED.volume_24h,
				fees_24h = EXCLUDED.fees_24h,
				apr = EXCLUDED.apr,
				updated_at = now()
		`,
			int64(chainID),
			p.ID,
			p.Token0.Address,
			p.Token1.Address,
			p.Reserve0,
			p.Reserve1,
			p.TotalSupply,
			p.TVL,
			p.Volume24h,
			p.Fees24h,
			p.APR,
			ts.UTC(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
