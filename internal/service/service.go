package service

import (
	"context"

	"billing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuService defines operations for menu catalog management.
type MenuService interface {
	// Seed writes the default menu if the catalog has never been written.
	Seed(ctx context.Context) (bool, error)

	// List returns every menu item in catalog order.
	List(ctx context.Context) ([]model.MenuItem, error)

	// GetByID returns a single menu item.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// Create validates the input and appends a new item with a fresh ID.
	Create(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error)

	// Update replaces name, price and image of an existing item.
	Update(ctx context.Context, id string, in model.MenuItemInput) (*model.MenuItem, error)

	// Delete removes an item. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// CartService defines operations on the single active cart.
type CartService interface {
	// Lines returns the cart lines in insertion order.
	Lines(ctx context.Context) ([]model.CartLine, error)

	// Add puts one unit of a menu item into the cart.
	Add(ctx context.Context, itemID string) error

	// SetQuantity sets the quantity of a line. Values below one remove it.
	SetQuantity(ctx context.Context, itemID string, qty int) error

	// Remove deletes a line from the cart.
	Remove(ctx context.Context, itemID string) error

	// Clear empties the cart.
	Clear(ctx context.Context) error

	// Deduct subtracts the quantities of invoiced lines from the cart and
	// drops lines that reach zero. Units added since lines were read stay.
	Deduct(ctx context.Context, lines []model.CartLine) error

	// Summary returns lines, total and item count from a single read.
	Summary(ctx context.Context) (*model.CartSummary, error)

	// Total returns the sum of price times quantity over all lines.
	Total(ctx context.Context) (decimal.Decimal, error)

	// ItemCount returns the sum of quantities over all lines.
	ItemCount(ctx context.Context) (int, error)
}

// InvoiceService defines operations on finalized invoices.
type InvoiceService interface {
	// Finalize snapshots lines into a new invoice and appends it to history.
	Finalize(ctx context.Context, lines []model.CartLine) (*model.Invoice, error)

	// Checkout finalizes the current cart and deducts the invoiced lines from it.
	Checkout(ctx context.Context) (*model.Invoice, error)

	// GetByID returns a single invoice.
	GetByID(ctx context.Context, id string) (*model.Invoice, error)

	// List returns the invoice history in finalization order.
	List(ctx context.Context) ([]model.Invoice, error)

	// Document renders an invoice as a downloadable PDF.
	Document(ctx context.Context, id string) (*model.Document, error)
}

// newID returns a time-ordered identifier.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
