// Package app wires configuration, storage, services and the HTTP server
// shared by the API server and the command-line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"billing/internal/config"
	"billing/internal/document"
	"billing/internal/handler"
	"billing/internal/metrics"
	"billing/internal/repository"
	"billing/internal/router"
	"billing/internal/service"
	"billing/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

// App holds the long-lived components built from a Config.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.Store
	Menu     service.MenuService
	Cart     service.CartService
	Invoices service.InvoiceService

	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// New opens the configured store and builds the services. It does not seed
// the menu; call Seed once at startup.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  s,
	}

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = metrics.New(a.registry)
	}

	var archiver document.Archiver
	if cfg.S3.Enabled {
		s3Archiver, err := document.NewS3Archiver(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archiver, invoices will not be archived")
		} else {
			archiver = s3Archiver
		}
	} else {
		logger.Info().Msg("invoice archiving disabled (S3 disabled)")
	}

	menuRepo := repository.NewMenuRepository(s, logger)
	cartRepo := repository.NewCartRepository(s, logger)
	invoiceRepo := repository.NewInvoiceRepository(s, logger)

	a.Menu = service.NewMenuService(menuRepo, logger)
	a.Cart = service.NewCartService(cartRepo, menuRepo, a.metrics, logger)
	a.Invoices = service.NewInvoiceService(
		invoiceRepo,
		a.Cart,
		document.NewPDFRenderer(document.DefaultPDFOptions()),
		archiver,
		a.metrics,
		logger,
	)

	return a, nil
}

// Seed writes the default menu on first run.
func (a *App) Seed(ctx context.Context) (bool, error) {
	return a.Menu.Seed(ctx)
}

// Handler returns the HTTP handler with all routes and middleware.
func (a *App) Handler() http.Handler {
	var gatherer prometheus.Gatherer
	if a.registry != nil {
		gatherer = a.registry
	}

	return router.New(router.Handlers{
		Menu:    handler.NewMenuHandler(a.Menu, a.Logger),
		Cart:    handler.NewCartHandler(a.Cart, a.Logger),
		Invoice: handler.NewInvoiceHandler(a.Invoices, a.Logger),
	}, a.Config.Auth.APIKey, a.metrics, gatherer, a.Logger)
}

// Serve listens on the configured address and blocks until ctx is cancelled
// or the server fails, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Config.Server.Address(), err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		a.Logger.Info().
			Str("address", ln.Addr().String()).
			Msg("HTTP server started")
		serverErrors <- server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		a.Logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				a.Logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		a.Logger.Info().Msg("server shutdown completed")
		return nil
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
