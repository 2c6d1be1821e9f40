package repository

import (
	"context"

	"billing/internal/model"
	"billing/internal/store"

	"github.com/rs/zerolog"
)

type cartRepository struct {
	lines *collection[model.CartLine]
}

// NewCartRepository creates a store-backed cart repository.
func NewCartRepository(s store.Store, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		lines: newCollection[model.CartLine](s, store.KeyCart, logger),
	}
}

func (r *cartRepository) Load(ctx context.Context) ([]model.CartLine, error) {
	lines, _, err := r.lines.load(ctx)
	return lines, err
}

func (r *cartRepository) Mutate(ctx context.Context, fn func(lines []model.CartLine) ([]model.CartLine, error)) ([]model.CartLine, error) {
	return r.lines.update(ctx, func(lines []model.CartLine, _ bool) ([]model.CartLine, error) {
		return fn(lines)
	})
}
