package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	paymentRequestsTotal  *prometheus.CounterVec
	paymentLatencySeconds *prometheus.HistogramVec
	paymentErrorsTotal    *prometheus.CounterVec
	transactionsTotal     *prometheus.CounterVec
	documentsRendered     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for payment observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		paymentRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Total number of payment API requests served.",
		}, []string{"method", "route", "status"})

		paymentLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payment_latency_seconds",
			Help:    "Latency distribution for payment API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		paymentErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_errors_total",
			Help: "Total number of error responses returned by payment endpoints.",
		}, []string{"method", "route", "status"})

		transactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Transactions created and finalized, labelled by resulting status.",
		}, []string{"status"})

		documentsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "documents_rendered_total",
			Help: "Invoices and ID cards rendered, labelled by kind and outcome.",
		}, []string{"kind", "outcome"})

		prometheus.MustRegister(paymentRequestsTotal, paymentLatencySeconds, paymentErrorsTotal, transactionsTotal, documentsRendered)
	})
}

// PaymentRequests exposes the counter for payment requests.
func PaymentRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentRequestsTotal
}

// PaymentLatency exposes the latency histogram for payment requests.
func PaymentLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return paymentLatencySeconds
}

// PaymentErrors exposes the counter for payment error responses.
func PaymentErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentErrorsTotal
}

// Transactions exposes the counter for transaction lifecycle outcomes.
func Transactions() *prometheus.CounterVec {
	RegisterMetrics()
	return transactionsTotal
}

// DocumentsRendered exposes the counter for rendered documents.
func DocumentsRendered() *prometheus.CounterVec {
	RegisterMetrics()
	return documentsRendered
}

// MetricsHandler exposes the Prometheus scrape endpoint through Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
