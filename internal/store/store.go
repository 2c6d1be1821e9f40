// Package store provides the key-value substrate the billing collections are persisted in.
// Each key holds one whole serialized collection; callers read, mutate and write it back.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"billing/internal/config"
	"billing/internal/database"

	"github.com/rs/zerolog"
)

// Keys of the persisted collections.
const (
	KeyMenuItems = "menuItems"
	KeyCart      = "cart"
	KeyInvoices  = "invoices"
)

// ErrInvalidKey is returned for empty keys or keys that could escape the file driver's directory.
var ErrInvalidKey = errors.New("store: invalid key")

// UpdateFunc receives the current value of a key and returns its replacement.
// found is false when the key has never been written. Returning a nil value leaves
// the key untouched; returning an error aborts the update.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store is a persistent mapping from string keys to serialized values.
type Store interface {
	// Get returns the value stored under key. found is false if the key was never written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Update performs an atomic read-modify-write of key.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Close releases resources held by the store.
	Close() error
}

// Open creates the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Info().Msg("using in-memory store, state is lost on exit")
		return NewMemory(), nil

	case config.StoreDriverFile:
		return NewFile(cfg.Store.Path, logger)

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s := NewPostgres(pool, logger).(*postgresStore)
		s.ownsPool = true
		return s, nil
	}

	return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
