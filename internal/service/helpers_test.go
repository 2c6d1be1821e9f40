package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"billing/internal/document"
	"billing/internal/metrics"
	"billing/internal/model"
	"billing/internal/repository"
	"billing/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRenderer is a mock implementation of document.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(w io.Writer, invoice *model.Invoice) error {
	args := m.Called(w, invoice)
	return args.Error(0)
}

// MockArchiver is a mock implementation of document.Archiver.
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, name string, content []byte) error {
	args := m.Called(ctx, name, content)
	return args.Error(0)
}

// writePDF makes a Render expectation write a fixed payload.
func writePDF(payload string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_, _ = args.Get(0).(io.Writer).Write([]byte(payload))
	}
}

type testEnv struct {
	store    store.Store
	registry *prometheus.Registry
	menu     *menuService
	cart     CartService
	invoice  *invoiceService
}

// newTestEnv wires the services over an in-memory store with the default
// menu seeded. renderer and archiver may be nil.
func newTestEnv(t *testing.T, renderer document.Renderer, archiver document.Archiver) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	s := store.NewMemory()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	menuRepo := repository.NewMenuRepository(s, logger)
	cartRepo := repository.NewCartRepository(s, logger)
	invoiceRepo := repository.NewInvoiceRepository(s, logger)

	menu := NewMenuService(menuRepo, logger).(*menuService)
	_, err := menu.Seed(context.Background())
	require.NoError(t, err)

	cart := NewCartService(cartRepo, menuRepo, m, logger)
	invoice := NewInvoiceService(invoiceRepo, cart, renderer, archiver, m, logger).(*invoiceService)

	return &testEnv{
		store:    s,
		registry: reg,
		menu:     menu,
		cart:     cart,
		invoice:  invoice,
	}
}

// sequentialIDs returns a generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
