package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"billing/internal/service"

	"github.com/rs/zerolog"
)

// InvoiceHandler handles checkout and invoice HTTP requests.
type InvoiceHandler struct {
	service service.InvoiceService
	logger  zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(service service.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With().Str("handler", "invoice").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *InvoiceHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.service.Checkout(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to checkout", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

// List handles GET /api/invoices requests.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve invoices", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}

// GetByID handles GET /api/invoices/{id} requests.
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve invoice", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// Download handles GET /api/invoices/{id}/pdf requests.
func (h *InvoiceHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Document(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to render invoice", h.logger)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		h.logger.Warn().Err(err).Str("filename", doc.Filename).Msg("failed to write document")
	}
}
