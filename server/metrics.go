package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/synqronlabs/mockingbird"
)

// Metrics provides observability for the analysis service.
// Tracks analysis outcomes and HTTP request handling.
type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all service metrics
// registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockingbird_analyses_total",
			Help: "Total number of completed analyses by verdict",
		}, []string{"verdict"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mockingbird_http_requests_total",
			Help: "Total number of HTTP requests by method and status code",
		}, []string{"method", "code"}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mockingbird_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling (DNS lookups included)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveAnalysis records a completed analysis and its verdict.
func (m *Metrics) ObserveAnalysis(category mockingbird.Category) {
	m.AnalysesTotal.WithLabelValues(string(category)).Inc()
}

// ObserveRequest records one handled HTTP request.
// Call with time.Now() from the start of the request.
func (m *Metrics) ObserveRequest(method string, code int, start time.Time) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RequestDuration.Observe(time.Since(start).Seconds())
}
