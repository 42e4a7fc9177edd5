package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	zip "stillgrove.com/tcgshelf/pkg/zip"
)

// PostgresCache keeps the catalog state as key / value rows in one table
type PostgresCache struct {
	pool  *pgxpool.Pool
	table string
	ctx   context.Context
}

// PoolConfig parses dsn and applies the small pool a single user needs
func PoolConfig(dsn string) (*pgxpool.Config, error) {
	const defaultMaxConns = int32(2)
	const defaultMaxConnLifetime = time.Minute * 10
	const defaultMaxIdletime = time.Minute * 5
	const defaultConnectTimeout = time.Second * 5

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("Parse postgres dsn - %w", err)
	}
	config.MaxConns = defaultMaxConns
	config.MaxConnLifetime = defaultMaxConnLifetime
	config.MaxConnIdleTime = defaultMaxIdletime
	config.ConnConfig.ConnectTimeout = defaultConnectTimeout
	return config, nil
}

// NewPostgresCache connects and creates table if it does not exist yet
func NewPostgresCache(ctx context.Context, dsn, table string) (*PostgresCache, error) {
	config, err := PoolConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("Postgres pool - %w", err)
	}

	p := &PostgresCache{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		ctx:   ctx,
	}
	_, err = pool.Exec(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value BYTEA NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now())",
		p.table,
	))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("Create table %s - %w", table, err)
	}
	return p, nil
}

func (p *PostgresCache) Load(key string) ([]byte, error) {
	var zipped []byte
	err := p.pool.QueryRow(p.ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key=$1", p.table), key,
	).Scan(&zipped)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Postgres load %s - %w", key, err)
	}
	return zip.Unzip(zipped)
}

// Store upserts all updates inside one transaction
func (p *PostgresCache) Store(updates map[string][]byte) error {
	batch := &pgx.Batch{}
	sql := fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()",
		p.table,
	)
	for k, v := range updates {
		payload, err := zip.Zip(v)
		if err != nil {
			return err
		}
		batch.Queue(sql, k, payload)
	}

	tx, err := p.pool.Begin(p.ctx)
	if err != nil {
		return fmt.Errorf("Postgres begin - %w", err)
	}
	defer tx.Rollback(p.ctx)

	br := tx.SendBatch(p.ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("Postgres upsert - %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("Postgres upsert - %w", err)
	}

	if err := tx.Commit(p.ctx); err != nil {
		return fmt.Errorf("Postgres commit - %w", err)
	}
	return nil
}

func (p *PostgresCache) Close() {
	p.pool.Close()
}
