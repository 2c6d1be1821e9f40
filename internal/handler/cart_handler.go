package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"billing/internal/model"
	"billing/internal/service"

	"github.com/rs/zerolog"
)

// AddItemRequest is the body of POST /api/cart/items.
type AddItemRequest struct {
	ItemID string `json:"itemId"`
}

// SetQuantityRequest is the body of PUT /api/cart/items/{id}.
type SetQuantityRequest struct {
	Qty *int `json:"qty"`
}

// CartHandler handles cart HTTP requests. Every mutation responds with the
// resulting cart summary.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeSummary(w, r)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "itemId is required", h.logger)
		return
	}

	if err := h.service.Add(r.Context(), req.ItemID); err != nil {
		writeServiceError(w, err, "failed to add item to cart", h.logger)
		return
	}

	h.writeSummary(w, r)
}

// SetQuantity handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeServiceError(w, model.ErrInvalidQuantity, "", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Qty == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "qty is required", h.logger)
		return
	}

	if err := h.service.SetQuantity(r.Context(), r.PathValue("id"), *req.Qty); err != nil {
		writeServiceError(w, err, "failed to update cart", h.logger)
		return
	}

	h.writeSummary(w, r)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "failed to update cart", h.logger)
		return
	}

	h.writeSummary(w, r)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeServiceError(w, err, "failed to clear cart", h.logger)
		return
	}

	h.writeSummary(w, r)
}

func (h *CartHandler) writeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
