package router

import (
	"net/http"

	"billing/internal/handler"
	"billing/internal/metrics"
	"billing/internal/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the API handlers mounted by New.
type Handlers struct {
	Menu    *handler.MenuHandler
	Cart    *handler.CartHandler
	Invoice *handler.InvoiceHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// /metrics is served from gatherer when it is non-nil.
func New(
	h Handlers,
	apiKey string,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Menu catalog
	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("POST /api/menu", h.Menu.Create)
	mux.HandleFunc("GET /api/menu/{id}", h.Menu.GetByID)
	mux.HandleFunc("PUT /api/menu/{id}", h.Menu.Update)
	mux.HandleFunc("DELETE /api/menu/{id}", h.Menu.Delete)

	// Cart
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.Cart.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.Cart.RemoveItem)

	// Checkout and invoices
	mux.HandleFunc("POST /api/checkout", h.Invoice.Checkout)
	mux.HandleFunc("GET /api/invoices", h.Invoice.List)
	mux.HandleFunc("GET /api/invoices/{id}", h.Invoice.GetByID)
	mux.HandleFunc("GET /api/invoices/{id}/pdf", h.Invoice.Download)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger, m)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
