package metrics

import (
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the tax and complement endpoints.
type Metrics struct {
	// Fiscal calculations by taxpayer class
	FiscalCalculations *prometheus.CounterVec

	// Invoices computed, labelled by whether a complement was attached
	InvoicesComputed *prometheus.CounterVec

	ComplementsBuilt prometheus.Counter

	// Validation failures by rejected field
	ValidationFailures *prometheus.CounterVec

	RequestLatency *prometheus.HistogramVec
}

// New registers all metrics on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FiscalCalculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notaria_fiscal_calculations_total",
			Help: "Total fiscal calculations by taxpayer class",
		}, []string{"taxpayer"}),

		InvoicesComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notaria_invoices_computed_total",
			Help: "Total invoice tax breakdowns computed",
		}, []string{"complement"}),

		ComplementsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "notaria_complements_built_total",
			Help: "Total notarial complements built",
		}),

		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notaria_validation_failures_total",
			Help: "Total rejected requests by field",
		}, []string{"field"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notaria_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "status"}),
	}
}

// IncrementFiscalCalculation records a fiscal calculation.
func (m *Metrics) IncrementFiscalCalculation(taxpayer string) {
	if m != nil {
		m.FiscalCalculations.WithLabelValues(taxpayer).Inc()
	}
}

// IncrementInvoice records a computed invoice.
func (m *Metrics) IncrementInvoice(withComplement bool) {
	if m != nil {
		label := "no"
		if withComplement {
			label = "yes"
		}
		m.InvoicesComputed.WithLabelValues(label).Inc()
	}
}

// IncrementComplement records a built complement.
func (m *Metrics) IncrementComplement() {
	if m != nil {
		m.ComplementsBuilt.Inc()
	}
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// IncrementValidationFailure records a rejected field. Slice indexes are
// folded so that the label set stays bounded.
func (m *Metrics) IncrementValidationFailure(field string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(indexPattern.ReplaceAllString(field, "[]")).Inc()
	}
}

// ObserveRequest records the duration of a request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, statusClass(status)).Observe(d.Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
