package handler

import (
	"net/http"

	"billing/internal/model"
	"billing/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu catalog HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu requests.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/menu/{id} requests.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/menu requests.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.MenuItemInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}

	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "failed to create menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/menu/{id} requests.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.MenuItemInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}

	item, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, err, "failed to update menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu/{id} requests.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "failed to delete menu item", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
