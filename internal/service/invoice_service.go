package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"billing/internal/document"
	"billing/internal/metrics"
	"billing/internal/model"
	"billing/internal/repository"

	"github.com/rs/zerolog"
)

// invoiceService implements InvoiceService.
type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	cart        CartService
	renderer    document.Renderer
	archiver    document.Archiver
	metrics     *metrics.Metrics
	newID       func() (string, error)
	now         func() time.Time
	logger      zerolog.Logger
}

// NewInvoiceService creates a new invoice service. renderer, archiver and m
// may be nil; without a renderer Document returns ErrRendererUnavailable and
// checkout skips archiving.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	cart CartService,
	renderer document.Renderer,
	archiver document.Archiver,
	m *metrics.Metrics,
	logger zerolog.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		cart:        cart,
		renderer:    renderer,
		archiver:    archiver,
		metrics:     m,
		newID:       newID,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("service", "invoice").Logger(),
	}
}

// Finalize does not clear the cart.
func (s *invoiceService) Finalize(ctx context.Context, lines []model.CartLine) (*model.Invoice, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice id: %w", err)
	}

	invoice := model.NewInvoice(id, s.now(), lines)
	if err := s.invoiceRepo.Append(ctx, invoice); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to append invoice")
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.metrics.InvoiceFinalized(invoice.Total)
	s.logger.Info().
		Str("invoice_id", id).
		Int("line_count", len(invoice.Items)).
		Str("total", invoice.Total.StringFixed(2)).
		Msg("invoice finalized")

	return invoice, nil
}

// Checkout finalizes the current cart, deducts the invoiced lines from it, then
// archives the rendered PDF when an archiver is configured. Once the invoice is
// persisted, deduction and archive failures are logged only.
func (s *invoiceService) Checkout(ctx context.Context) (*model.Invoice, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		s.logger.Debug().Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	invoice, err := s.Finalize(ctx, lines)
	if err != nil {
		return nil, err
	}

	if err := s.cart.Deduct(ctx, invoice.Items); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("invoice saved but cart not updated")
	}

	s.archive(ctx, invoice)
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	invoices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}

	s.logger.Debug().Str("invoice_id", id).Msg("invoice not found")
	return nil, model.ErrInvoiceNotFound
}

func (s *invoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list invoices")
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) Document(ctx context.Context, id string) (*model.Document, error) {
	if s.renderer == nil {
		return nil, model.ErrRendererUnavailable
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.render(invoice)
	if err != nil {
		return nil, err
	}

	return &model.Document{
		Filename:    document.Filename(invoice),
		ContentType: document.ContentTypePDF,
		Content:     content,
	}, nil
}

func (s *invoiceService) render(invoice *model.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, invoice); err != nil {
		s.metrics.DocumentRendered(metrics.OutcomeFailure)
		s.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to render invoice")
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	s.metrics.DocumentRendered(metrics.OutcomeSuccess)
	return buf.Bytes(), nil
}

func (s *invoiceService) archive(ctx context.Context, invoice *model.Invoice) {
	if s.archiver == nil || s.renderer == nil {
		return
	}

	content, err := s.render(invoice)
	if err != nil {
		return
	}

	name := document.Filename(invoice)
	if err := s.archiver.Archive(ctx, name, content); err != nil {
		s.logger.Warn().Err(err).Str("invoice_id", invoice.ID).Msg("failed to archive invoice")
		return
	}

	s.logger.Debug().Str("invoice_id", invoice.ID).Str("name", name).Msg("invoice archived")
}
