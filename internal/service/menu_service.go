package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"billing/internal/model"
	"billing/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// menuService implements MenuService.
type menuService struct {
	menuRepo repository.MenuRepository
	newID    func() (string, error)
	logger   zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(menuRepo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		menuRepo: menuRepo,
		newID:    newID,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

func (s *menuService) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.menuRepo.Seed(ctx, DefaultMenu())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to seed menu")
		return false, fmt.Errorf("failed to seed menu: %w", err)
	}
	if seeded {
		s.logger.Info().Int("count", len(DefaultMenu())).Msg("default menu written")
	}
	return seeded, nil
}

func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := model.FindMenuItem(items, id)
	if idx < 0 {
		s.logger.Debug().Str("item_id", id).Msg("menu item not found")
		return nil, model.ErrMenuItemNotFound
	}

	item := items[idx]
	return &item, nil
}

func (s *menuService) Create(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error) {
	item, err := parseMenuInput(in)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", in.Name).Str("price", string(in.Price)).Msg("invalid menu item")
		return nil, err
	}

	if item.ID, err = s.newID(); err != nil {
		return nil, fmt.Errorf("failed to generate menu item id: %w", err)
	}

	_, err = s.menuRepo.Mutate(ctx, func(items []model.MenuItem) ([]model.MenuItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Str("name", item.Name).
		Str("price", item.Price.String()).
		Msg("menu item created")

	return &item, nil
}

func (s *menuService) Update(ctx context.Context, id string, in model.MenuItemInput) (*model.MenuItem, error) {
	item, err := parseMenuInput(in)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", id).Msg("invalid menu item")
		return nil, err
	}
	item.ID = id

	_, err = s.menuRepo.Mutate(ctx, func(items []model.MenuItem) ([]model.MenuItem, error) {
		idx := model.FindMenuItem(items, id)
		if idx < 0 {
			return nil, model.ErrMenuItemNotFound
		}
		items[idx] = item
		return items, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrMenuItemNotFound) {
			s.logger.Debug().Str("item_id", id).Msg("menu item not found")
			return nil, err
		}
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to update menu item")
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Msg("menu item updated")
	return &item, nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	removed := false
	_, err := s.menuRepo.Mutate(ctx, func(items []model.MenuItem) ([]model.MenuItem, error) {
		if model.FindMenuItem(items, id) < 0 {
			return nil, nil
		}
		removed = true
		out := make([]model.MenuItem, 0, len(items)-1)
		for _, item := range items {
			if item.ID != id {
				out = append(out, item)
			}
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if removed {
		s.logger.Info().Str("item_id", id).Msg("menu item deleted")
	}
	return nil
}

// parseMenuInput trims and validates the raw fields. The returned item has no ID.
func parseMenuInput(in model.MenuItemInput) (model.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.MenuItem{}, model.ErrInvalidName
	}

	price, err := decimal.NewFromString(strings.TrimSpace(string(in.Price)))
	if err != nil || price.IsNegative() {
		return model.MenuItem{}, model.ErrInvalidPrice
	}

	return model.MenuItem{
		Name:  name,
		Price: price,
		Image: strings.TrimSpace(in.Image),
	}, nil
}
