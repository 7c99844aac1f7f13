package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tokenScope/internal/model"
	"tokenScope/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS token_snapshots (
	id BIGSERIAL PRIMARY KEY,
	token_address TEXT NOT NULL,
	chain_id TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	links JSONB,
	price_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	liquidity DOUBLE PRECISION NOT NULL DEFAULT 0,
	volume_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	developer TEXT NOT NULL DEFAULT '',
	ts TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_token_snapshots_token ON token_snapshots (token_address);
`

// Store provides Postgres persistence for snapshots.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and bootstraps the snapshot table.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Begin opens a transaction-backed batch.
func (s *Store) Begin(ctx context.Context) (storage.Batch, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &txBatch{tx: tx}, nil
}

// All returns the full snapshot history.
func (s *Store) All(ctx context.Context) ([]model.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, token_address, chain_id, icon, description, links,
		       price_usd, liquidity, volume_usd, developer, ts
		FROM token_snapshots
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var links []byte
		if err := rows.Scan(
			&snap.ID,
			&snap.TokenAddress,
			&snap.ChainID,
			&snap.Icon,
			&snap.Description,
			&links,
			&snap.PriceUSD,
			&snap.Liquidity,
			&snap.VolumeUSD,
			&snap.Developer,
			&snap.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if len(links) > 0 {
			snap.Links = links
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

type txBatch struct {
	tx      pgx.Tx
	pending []model.Snapshot
}

func (b *txBatch) Add(snapshot model.Snapshot) {
	b.pending = append(b.pending, snapshot)
}

func (b *txBatch) Commit(ctx context.Context) error {
	if len(b.pending) > 0 {
		batch := &pgx.Batch{}
		for _, snap := range b.pending {
			var links interface{}
			if len(snap.Links) > 0 {
				links = []byte(snap.Links)
			}
			batch.Queue(`
				INSERT INTO token_snapshots (
					token_address, chain_id, icon, description, links,
					price_usd, liquidity, volume_usd, developer, ts
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`,
				snap.TokenAddress,
				snap.ChainID,
				snap.Icon,
				snap.Description,
				links,
				snap.PriceUSD,
				snap.Liquidity,
				snap.VolumeUSD,
				snap.Developer,
				snap.Timestamp,
			)
		}

		br := b.tx.SendBatch(ctx, batch)
		for range b.pending {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				_ = b.tx.Rollback(ctx)
				return fmt.Errorf("insert snapshot: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			_ = b.tx.Rollback(ctx)
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := b.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	b.pending = nil
	return nil
}

func (b *txBatch) Rollback(ctx context.Context) error {
	b.pending = nil
	if err := b.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}
