package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"billing/internal/store"

	"github.com/rs/zerolog"
)

// collection persists a slice of T as one JSON array under a single store key.
type collection[T any] struct {
	store  store.Store
	key    string
	logger zerolog.Logger
}

func newCollection[T any](s store.Store, key string, logger zerolog.Logger) *collection[T] {
	return &collection[T]{
		store:  s,
		key:    key,
		logger: logger.With().Str("repository", key).Logger(),
	}
}

func (c *collection[T]) load(ctx context.Context) ([]T, bool, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read collection")
		return nil, false, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	items, err := c.decode(raw, found)
	if err != nil {
		return nil, false, err
	}
	return items, found, nil
}

// update runs fn inside one atomic store update. fn returning a nil slice skips the write.
func (c *collection[T]) update(ctx context.Context, fn func(items []T, found bool) ([]T, error)) ([]T, error) {
	var result []T

	err := c.store.Update(ctx, c.key, func(current []byte, found bool) ([]byte, error) {
		items, err := c.decode(current, found)
		if err != nil {
			return nil, err
		}

		next, err := fn(items, found)
		if err != nil {
			return nil, err
		}
		if next == nil {
			result = items
			return nil, nil
		}

		result = next
		return c.encode(next)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *collection[T]) decode(raw []byte, found bool) ([]T, error) {
	items := []T{}
	if !found || len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode collection")
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *collection[T]) encode(items []T) ([]byte, error) {
	b, err := json.Marshal(items)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode collection")
		return nil, fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return b, nil
}
