package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// postgresStore keeps each key as one row of the kv_store table.
type postgresStore struct {
	pool     *pgxpool.Pool
	logger   zerolog.Logger
	ownsPool bool
}

// NewPostgres creates a PostgreSQL-backed store. The schema must already exist, see EnsureSchema.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// EnsureSchema creates the kv_store table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv_store schema: %w", err)
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	return s.get(ctx, s.pool, key)
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.set(ctx, s.pool, key, value)
}

// Update runs inside a transaction holding an advisory lock on the key, so concurrent
// updates of the same key serialize even when the row does not exist yet.
func (s *postgresStore) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	if err := validateKey(key); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Str("key", key).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to lock key")
		return fmt.Errorf("failed to lock key %s: %w", key, err)
	}

	current, found, err := s.get(ctx, tx, key)
	if err != nil {
		return err
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}

	if next != nil {
		if err = s.set(ctx, tx, key, next); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit update of %s: %w", key, err)
	}

	return nil
}

// Close closes the pool when the store opened it itself.
func (s *postgresStore) Close() error {
	if s.ownsPool {
		s.pool.Close()
	}
	return nil
}

// rowQuerier is the subset shared by *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *postgresStore) get(ctx context.Context, q rowQuerier, key string) ([]byte, bool, error) {
	var value string
	err := q.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query key")
		return nil, false, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *postgresStore) set(ctx context.Context, q rowQuerier, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::text::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, key, string(value)); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write key")
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("key written")
	return nil
}
