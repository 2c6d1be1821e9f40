package integration

import (
	"context"
	"testing"
	"time"

	"billing/internal/model"
	"billing/internal/repository"
	"billing/internal/service"
	"billing/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("Seed writes once and survives a new store", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		repo := repository.NewMenuRepository(store.NewPostgres(testDB.Pool, logger), logger)

		seeded, err := repo.Seed(ctx, service.DefaultMenu())
		require.NoError(t, err)
		assert.True(t, seeded)

		other := repository.NewMenuRepository(store.NewPostgres(testDB.Pool, logger), logger)
		seeded, err = other.Seed(ctx, service.DefaultMenu())
		require.NoError(t, err)
		assert.False(t, seeded)

		items, err := other.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 10)
		assert.True(t, decimal.RequireFromString("14.99").Equal(items[3].Price))
	})

	t.Run("Seed leaves an emptied menu alone", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		repo := repository.NewMenuRepository(store.NewPostgres(testDB.Pool, logger), logger)

		_, err := repo.Seed(ctx, service.DefaultMenu())
		require.NoError(t, err)
		_, err = repo.Mutate(ctx, func([]model.MenuItem) ([]model.MenuItem, error) {
			return []model.MenuItem{}, nil
		})
		require.NoError(t, err)

		seeded, err := repo.Seed(ctx, service.DefaultMenu())
		require.NoError(t, err)
		assert.False(t, seeded)

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestInvoiceRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("Append keeps order and snapshots", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		repo := repository.NewInvoiceRepository(store.NewPostgres(testDB.Pool, logger), logger)

		lines := []model.CartLine{{ID: "1", Name: "Chicken Burger", Price: decimal.RequireFromString("8.99"), Qty: 2}}
		base := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

		first := model.NewInvoice("inv-1", base, lines)
		require.NoError(t, repo.Append(ctx, first))
		lines[0].Qty = 5
		first.Items[0].Name = "mutated"
		require.NoError(t, repo.Append(ctx, model.NewInvoice("inv-2", base.Add(time.Minute), lines)))

		invoices, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, invoices, 2)
		assert.Equal(t, "inv-1", invoices[0].ID)
		assert.Equal(t, "Chicken Burger", invoices[0].Items[0].Name)
		assert.Equal(t, 2, invoices[0].Items[0].Qty)
		assert.Equal(t, "17.98", invoices[0].Total.StringFixed(2))
		assert.True(t, base.Equal(invoices[0].Date))
		assert.Equal(t, "inv-2", invoices[1].ID)
		assert.Equal(t, "44.95", invoices[1].Total.StringFixed(2))
	})
}
