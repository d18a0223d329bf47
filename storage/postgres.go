package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists records in the kv_store table created by cmd/migrate.
type PostgresStore struct {
	pool *pgxpool.Pool
}

type kvRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// NewPostgresStore creates a connection pool for dbURL. We use a pool (not a
// single conn) because hosted Postgres closes idle connections.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// migrations alter the table.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	log.Printf("[NewPostgresStore] DB pool ready")
	return &PostgresStore{pool: pool}, nil
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	row, err := queryOne[kvRow](ctx, s.pool,
		`SELECT key, value::text AS value FROM kv_store WHERE key = @key`,
		pgx.NamedArgs{"key": key})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

const pgUpsert = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (@key, @value::jsonb, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

func (s *PostgresStore) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, pgUpsert, pgx.NamedArgs{"key": key, "value": string(value)})
	if err != nil {
		log.Printf("[PostgresStore.Save] %s: %v", key, err)
	}
	return err
}

// SaveMany upserts every value inside one transaction.
func (s *PostgresStore) SaveMany(ctx context.Context, values map[string][]byte) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for key, value := range values {
			if _, err := tx.Exec(ctx, pgUpsert, pgx.NamedArgs{"key": key, "value": string(value)}); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[PostgresStore.SaveMany] %v", err)
	}
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
