package repository

import (
	"context"

	"billing/internal/model"
	"billing/internal/store"

	"github.com/rs/zerolog"
)

// menuRepository implements MenuRepository on top of a key-value store.
type menuRepository struct {
	items *collection[model.MenuItem]
}

// NewMenuRepository creates a store-backed menu repository.
func NewMenuRepository(s store.Store, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		items: newCollection[model.MenuItem](s, store.KeyMenuItems, logger),
	}
}

func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	items, _, err := r.items.load(ctx)
	return items, err
}

func (r *menuRepository) Seed(ctx context.Context, defaults []model.MenuItem) (bool, error) {
	seeded := false
	_, err := r.items.update(ctx, func(items []model.MenuItem, found bool) ([]model.MenuItem, error) {
		if found {
			return nil, nil
		}
		seeded = true
		out := make([]model.MenuItem, len(defaults))
		copy(out, defaults)
		return out, nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

func (r *menuRepository) Mutate(ctx context.Context, fn func(items []model.MenuItem) ([]model.MenuItem, error)) ([]model.MenuItem, error) {
	return r.items.update(ctx, func(items []model.MenuItem, _ bool) ([]model.MenuItem, error) {
		return fn(items)
	})
}
