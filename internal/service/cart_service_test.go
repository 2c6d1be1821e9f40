package service

import (
	"context"
	"sync"
	"testing"

	"billing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_EmptyCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	total, err := env.cart.Total(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	count, err := env.cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	require.NoError(t, env.cart.Add(ctx, "1"))
	require.NoError(t, env.cart.Add(ctx, "1"))
	require.NoError(t, env.cart.Add(ctx, "2"))

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Qty)
	assert.Equal(t, "Chicken Burger", lines[0].Name)
	assert.Equal(t, "2", lines[1].ID)
	assert.Equal(t, 1, lines[1].Qty)

	count, err := env.cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	total, err := env.cart.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, "27.97", total.StringFixed(2))

	summary, err := env.cart.Summary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Lines, 2)
	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, total.Equal(summary.Total))
}

func TestCartService_AddUnknownItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	require.NoError(t, env.cart.Add(ctx, "1"))

	err := env.cart.Add(ctx, "missing")

	assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Qty)
}

func TestCartService_AddSnapshotsMenuItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	require.NoError(t, env.cart.Add(ctx, "1"))

	_, err := env.menu.Update(ctx, "1", model.MenuItemInput{Name: "Renamed", Price: "99.99"})
	require.NoError(t, err)
	require.NoError(t, env.menu.Delete(ctx, "1"))

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Chicken Burger", lines[0].Name)
	assert.True(t, dec("8.99").Equal(lines[0].Price))

	// Once the item is gone from the menu, the existing line can still be edited.
	require.NoError(t, env.cart.SetQuantity(ctx, "1", 4))
	count, err := env.cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCartService_SetQuantity(t *testing.T) {
	tests := []struct {
		name          string
		itemID        string
		qty           int
		expectedLines int
		expectedCount int
	}{
		{name: "Increase", itemID: "1", qty: 5, expectedLines: 2, expectedCount: 6},
		{name: "Decrease to one", itemID: "1", qty: 1, expectedLines: 2, expectedCount: 2},
		{name: "Zero removes line", itemID: "1", qty: 0, expectedLines: 1, expectedCount: 1},
		{name: "Negative removes line", itemID: "1", qty: -3, expectedLines: 1, expectedCount: 1},
		{name: "Missing line is a no-op", itemID: "5", qty: 3, expectedLines: 2, expectedCount: 3},
		{name: "Unknown id is a no-op", itemID: "missing", qty: 3, expectedLines: 2, expectedCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, nil, nil)
			require.NoError(t, env.cart.Add(ctx, "1"))
			require.NoError(t, env.cart.Add(ctx, "1"))
			require.NoError(t, env.cart.Add(ctx, "2"))

			require.NoError(t, env.cart.SetQuantity(ctx, tt.itemID, tt.qty))

			summary, err := env.cart.Summary(ctx)
			require.NoError(t, err)
			assert.Len(t, summary.Lines, tt.expectedLines)
			assert.Equal(t, tt.expectedCount, summary.ItemCount)
			for _, line := range summary.Lines {
				assert.GreaterOrEqual(t, line.Qty, 1)
			}
		})
	}
}

func TestCartService_Remove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	require.NoError(t, env.cart.Add(ctx, "1"))
	require.NoError(t, env.cart.Add(ctx, "2"))
	require.NoError(t, env.cart.Add(ctx, "3"))

	require.NoError(t, env.cart.Remove(ctx, "2"))
	require.NoError(t, env.cart.Remove(ctx, "2"))
	require.NoError(t, env.cart.Remove(ctx, "missing"))

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ID)
	assert.Equal(t, "3", lines[1].ID)
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)
	require.NoError(t, env.cart.Add(ctx, "1"))
	require.NoError(t, env.cart.Add(ctx, "4"))

	require.NoError(t, env.cart.Clear(ctx))

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)

	require.NoError(t, env.cart.Clear(ctx))
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.cart.Add(ctx, "5"))
		}()
	}
	wg.Wait()

	lines, err := env.cart.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, workers, lines[0].Qty)
}

func TestCartService_Deduct(t *testing.T) {
	tests := []struct {
		name     string
		invoiced []model.CartLine
		expected map[string]int
	}{
		{
			name:     "Partial deduction keeps the remainder",
			invoiced: []model.CartLine{{ID: "1", Qty: 2}, {ID: "3", Qty: 1}},
			expected: map[string]int{"1": 1},
		},
		{
			name:     "Full deduction empties the cart",
			invoiced: []model.CartLine{{ID: "1", Qty: 3}, {ID: "3", Qty: 1}},
			expected: map[string]int{},
		},
		{
			name:     "Deducting more than present drops the line",
			invoiced: []model.CartLine{{ID: "3", Qty: 5}},
			expected: map[string]int{"1": 3},
		},
		{
			name:     "Lines absent from the cart are ignored",
			invoiced: []model.CartLine{{ID: "9", Qty: 1}},
			expected: map[string]int{"1": 3, "3": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, nil, nil)
			for _, id := range []string{"1", "1", "1", "3"} {
				require.NoError(t, env.cart.Add(ctx, id))
			}

			require.NoError(t, env.cart.Deduct(ctx, tt.invoiced))

			lines, err := env.cart.Lines(ctx)
			require.NoError(t, err)
			got := map[string]int{}
			for _, line := range lines {
				got[line.ID] = line.Qty
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCartService_ConcurrentAddsDuringCheckout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil, nil)

	const adds = 40
	const checkouts = 5
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.cart.Add(ctx, "5"))
		}()
	}
	for i := 0; i < checkouts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.invoice.Checkout(ctx); err != nil {
				assert.ErrorIs(t, err, model.ErrEmptyCart)
			}
		}()
	}
	wg.Wait()

	invoices, err := env.invoice.List(ctx)
	require.NoError(t, err)
	invoiced := 0
	for _, inv := range invoices {
		invoiced += model.LinesItemCount(inv.Items)
	}

	remaining, err := env.cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, adds, invoiced+remaining)
}
