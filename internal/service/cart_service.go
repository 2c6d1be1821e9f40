package service

import (
	"context"
	"fmt"

	"billing/internal/metrics"
	"billing/internal/model"
	"billing/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Cart operation labels recorded in metrics.
const (
	opAdd         = "add"
	opSetQuantity = "set_quantity"
	opRemove      = "remove"
	opClear       = "clear"
	opDeduct      = "deduct"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	menuRepo repository.MenuRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewCartService creates a new cart service. m may be nil.
func NewCartService(
	cartRepo repository.CartRepository,
	menuRepo repository.MenuRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		menuRepo: menuRepo,
		metrics:  m,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Lines(ctx context.Context) ([]model.CartLine, error) {
	lines, err := s.cartRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Add copies name, price and image from the menu into a new line, so later
// menu edits do not reach lines already in the cart.
func (s *cartService) Add(ctx context.Context, itemID string) error {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return fmt.Errorf("failed to get menu items: %w", err)
	}

	idx := model.FindMenuItem(items, itemID)
	if idx < 0 {
		s.logger.Debug().Str("item_id", itemID).Msg("menu item not found")
		return model.ErrMenuItemNotFound
	}
	item := items[idx]

	_, err = s.cartRepo.Mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		if i := model.FindCartLine(lines, itemID); i >= 0 {
			lines[i].Qty++
			return lines, nil
		}
		return append(lines, model.CartLine{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Image: item.Image,
			Qty:   1,
		}), nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to add to cart")
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	s.metrics.CartMutation(opAdd)
	s.logger.Debug().Str("item_id", itemID).Msg("item added to cart")
	return nil
}

func (s *cartService) SetQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, itemID)
	}

	changed := false
	_, err := s.cartRepo.Mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		i := model.FindCartLine(lines, itemID)
		if i < 0 {
			return nil, nil
		}
		changed = true
		lines[i].Qty = qty
		return lines, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Int("qty", qty).Msg("failed to set quantity")
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if changed {
		s.metrics.CartMutation(opSetQuantity)
		s.logger.Debug().Str("item_id", itemID).Int("qty", qty).Msg("cart quantity updated")
	}
	return nil
}

func (s *cartService) Remove(ctx context.Context, itemID string) error {
	changed := false
	_, err := s.cartRepo.Mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		if model.FindCartLine(lines, itemID) < 0 {
			return nil, nil
		}
		changed = true
		out := make([]model.CartLine, 0, len(lines)-1)
		for _, line := range lines {
			if line.ID != itemID {
				out = append(out, line)
			}
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to remove from cart")
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if changed {
		s.metrics.CartMutation(opRemove)
		s.logger.Debug().Str("item_id", itemID).Msg("item removed from cart")
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context) error {
	_, err := s.cartRepo.Mutate(ctx, func([]model.CartLine) ([]model.CartLine, error) {
		return []model.CartLine{}, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.metrics.CartMutation(opClear)
	return nil
}

func (s *cartService) Deduct(ctx context.Context, invoiced []model.CartLine) error {
	_, err := s.cartRepo.Mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		out := make([]model.CartLine, 0, len(lines))
		for _, line := range lines {
			for _, inv := range invoiced {
				if inv.ID == line.ID {
					line.Qty -= inv.Qty
				}
			}
			if line.Qty >= 1 {
				out = append(out, line)
			}
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int("line_count", len(invoiced)).Msg("failed to deduct invoiced lines")
		return fmt.Errorf("failed to deduct from cart: %w", err)
	}

	s.metrics.CartMutation(opDeduct)
	return nil
}

func (s *cartService) Summary(ctx context.Context) (*model.CartSummary, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewCartSummary(lines), nil
}

func (s *cartService) Total(ctx context.Context) (decimal.Decimal, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return model.LinesTotal(lines), nil
}

func (s *cartService) ItemCount(ctx context.Context) (int, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	return model.LinesItemCount(lines), nil
}
