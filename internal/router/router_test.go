package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"billing/internal/document"
	"billing/internal/handler"
	"billing/internal/metrics"
	"billing/internal/model"
	"billing/internal/repository"
	"billing/internal/service"
	"billing/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key-123"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	s := store.NewMemory()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	menuRepo := repository.NewMenuRepository(s, logger)
	menuService := service.NewMenuService(menuRepo, logger)
	_, err := menuService.Seed(context.Background())
	require.NoError(t, err)

	cartService := service.NewCartService(repository.NewCartRepository(s, logger), menuRepo, m, logger)
	invoiceService := service.NewInvoiceService(
		repository.NewInvoiceRepository(s, logger),
		cartService,
		document.NewPDFRenderer(document.DefaultPDFOptions()),
		nil,
		m,
		logger,
	)

	return New(Handlers{
		Menu:    handler.NewMenuHandler(menuService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Invoice: handler.NewInvoiceHandler(invoiceService, logger),
	}, testAPIKey, m, reg, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", testAPIKey)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	do(t, h, http.MethodGet, "/api/menu", "")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "billing_http_requests_total")
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/menu", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPatch, "/api/menu", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_CheckoutFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var menu []model.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))
	require.Len(t, menu, 10)

	rec = do(t, h, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	for _, id := range []string{"1", "1", "2"} {
		rec = do(t, h, http.MethodPost, "/api/cart/items", `{"itemId": "`+id+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var summary model.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Len(t, summary.Lines, 2)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "27.97", summary.Total.StringFixed(2))

	rec = do(t, h, http.MethodPut, "/api/cart/items/2", `{"qty": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Len(t, summary.Lines, 1)

	rec = do(t, h, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var invoice model.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, "17.98", invoice.Total.StringFixed(2))

	rec = do(t, h, http.MethodGet, "/api/cart", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Empty(t, summary.Lines)

	rec = do(t, h, http.MethodGet, "/api/invoices/"+invoice.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/invoices/"+invoice.ID+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-`+invoice.ID+`.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	rec = do(t, h, http.MethodGet, "/api/invoices", "")
	var invoices []model.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoices))
	assert.Len(t, invoices, 1)
}

func TestRouter_MenuCRUD(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/menu", `{"name": "Masala Tea", "price": "2.25"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var item model.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.NotEmpty(t, item.ID)

	rec = do(t, h, http.MethodPut, "/api/menu/"+item.ID, `{"name": "Masala Chai", "price": 2.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/menu/"+item.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Masala Chai", item.Name)

	rec = do(t, h, http.MethodDelete, "/api/menu/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/menu/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/menu", `{"name": "Bad", "price": "-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
