// Package metrics exposes Prometheus counters for cart, invoice and HTTP activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "billing"

// Outcome label values for rendered documents.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the application counters. A nil *Metrics records nothing.
type Metrics struct {
	cartMutations     *prometheus.CounterVec
	invoicesFinalized prometheus.Counter
	invoiceRevenue    prometheus.Counter
	documentsRendered *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_mutations_total",
				Help:      "Total number of cart mutations by operation.",
			},
			[]string{"op"},
		),
		invoicesFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_finalized_total",
			Help:      "Total number of invoices finalized.",
		}),
		invoiceRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_revenue_total",
			Help:      "Sum of finalized invoice totals.",
		}),
		documentsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_rendered_total",
				Help:      "Total number of invoice PDFs rendered by outcome.",
			},
			[]string{"outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.cartMutations,
		m.invoicesFinalized,
		m.invoiceRevenue,
		m.documentsRendered,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// CartMutation counts one cart operation (add, set_quantity, remove, clear, deduct).
func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

// InvoiceFinalized counts a finalized invoice and adds its total to the revenue counter.
func (m *Metrics) InvoiceFinalized(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.invoicesFinalized.Inc()
	if total.IsPositive() {
		m.invoiceRevenue.Add(total.InexactFloat64())
	}
}

// DocumentRendered counts a PDF render attempt.
func (m *Metrics) DocumentRendered(outcome string) {
	if m == nil {
		return
	}
	m.documentsRendered.WithLabelValues(outcome).Inc()
}

// HTTPRequest records one served request. route should be the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
