package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultOK labels evaluations that produced a result.
const ResultOK = "ok"

// Metrics holds the Prometheus metrics of one server. Each Metrics has its own
// registry, so several servers may coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Evaluation metrics
	Evaluations   *prometheus.CounterVec
	FormulaLength prometheus.Histogram
	RateLimited   prometheus.Counter

	snapshot Snapshot
	mu       sync.Mutex
}

// Snapshot holds running totals for the JSON stats endpoint.
type Snapshot struct {
	Requests    int64            `json:"requests"`
	Errors      int64            `json:"errors"`
	Evaluations map[string]int64 `json:"evaluations"`
}

// NewMetrics creates a metrics collector with a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calc_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		Evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calc_evaluations_total",
				Help: "Total number of formula evaluations by result kind",
			},
			[]string{"result"},
		),
		FormulaLength: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calc_formula_length_bytes",
				Help:    "Length of evaluated formulas in bytes",
				Buckets: prometheus.ExponentialBuckets(1, 4, 7),
			},
		),
		RateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Name: "calc_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		snapshot: Snapshot{Evaluations: make(map[string]int64)},
	}
}

// Registry returns the registry holding m's collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves m's registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Requests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.Errors++
	}
	m.mu.Unlock()
}

// RecordEvaluation records one formula evaluation. result is ResultOK or the
// name of the error kind.
func (m *Metrics) RecordEvaluation(result string, length int) {
	m.Evaluations.WithLabelValues(result).Inc()
	m.FormulaLength.Observe(float64(length))

	m.mu.Lock()
	m.snapshot.Evaluations[result]++
	m.mu.Unlock()
}

// IncRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) IncRateLimited() {
	m.RateLimited.Inc()
}

// Snapshot returns a copy of the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.snapshot
	s.Evaluations = make(map[string]int64, len(m.snapshot.Evaluations))
	for k, v := range m.snapshot.Evaluations {
		s.Evaluations[k] = v
	}
	return s
}
