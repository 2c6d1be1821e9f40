package repository

import (
	"context"

	"billing/internal/model"
	"billing/internal/store"

	"github.com/rs/zerolog"
)

type invoiceRepository struct {
	invoices *collection[model.Invoice]
	logger   zerolog.Logger
}

// NewInvoiceRepository creates a store-backed invoice history.
func NewInvoiceRepository(s store.Store, logger zerolog.Logger) InvoiceRepository {
	return &invoiceRepository{
		invoices: newCollection[model.Invoice](s, store.KeyInvoices, logger),
		logger:   logger.With().Str("repository", "invoice").Logger(),
	}
}

func (r *invoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	invoices, _, err := r.invoices.load(ctx)
	return invoices, err
}

func (r *invoiceRepository) Append(ctx context.Context, invoice *model.Invoice) error {
	snapshot := invoice.Clone()
	_, err := r.invoices.update(ctx, func(invoices []model.Invoice, _ bool) ([]model.Invoice, error) {
		return append(invoices, *snapshot), nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug().Str("invoice_id", invoice.ID).Msg("invoice appended")
	return nil
}
