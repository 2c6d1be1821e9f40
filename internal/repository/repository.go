package repository

import (
	"context"

	"billing/internal/model"
)

// MenuRepository provides access to the persisted menu collection.
type MenuRepository interface {
	// List returns all menu items in stored order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// Seed writes items only if the collection has never been written.
	// Reports whether the defaults were written.
	Seed(ctx context.Context, items []model.MenuItem) (bool, error)

	// Mutate atomically replaces the collection with the result of fn.
	// A nil result leaves the collection untouched.
	Mutate(ctx context.Context, fn func(items []model.MenuItem) ([]model.MenuItem, error)) ([]model.MenuItem, error)
}

// CartRepository provides access to the persisted cart.
type CartRepository interface {
	// Load returns the cart lines in stored order. A cart never written is empty.
	Load(ctx context.Context) ([]model.CartLine, error)

	// Mutate atomically replaces the cart with the result of fn and returns it.
	// A nil result leaves the cart untouched.
	Mutate(ctx context.Context, fn func(lines []model.CartLine) ([]model.CartLine, error)) ([]model.CartLine, error)
}

// InvoiceRepository provides access to the append-only invoice history.
type InvoiceRepository interface {
	// List returns all invoices in append order.
	List(ctx context.Context) ([]model.Invoice, error)

	// Append adds an invoice to the end of the history.
	Append(ctx context.Context, invoice *model.Invoice) error
}
