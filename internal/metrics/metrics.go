// Package metrics exposes ledger, fx and HTTP telemetry to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements ledger.MetricsCollector and fx.MetricsCollector.
// A nil *Metrics records nothing.
type Metrics struct {
	Operations         *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	IdempotentReplays  *prometheus.CounterVec
	OperationErrors    *prometheus.CounterVec
	RateLookups        *prometheus.CounterVec
	ProviderAttempts   *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Ledger operations by outcome.",
			},
			[]string{"op", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Ledger operation latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		IdempotentReplays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_idempotent_replays_total",
				Help: "Requests answered from an existing transaction record.",
			},
			[]string{"op"},
		),
		OperationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operation_errors_total",
				Help: "Failed ledger operations by error code.",
			},
			[]string{"op", "code"},
		),
		RateLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_rate_lookups_total",
				Help: "Resolved fx rates by the tier that answered.",
			},
			[]string{"source"},
		),
		ProviderAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_provider_attempts_total",
				Help: "Upstream fx provider attempts by result.",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}

	registry.MustRegister(
		m.Operations, m.OperationDuration, m.IdempotentReplays, m.OperationErrors,
		m.RateLookups, m.ProviderAttempts,
		m.HTTPRequests, m.HTTPRequestLatency,
	)
	return m
}

func (m *Metrics) RecordOperationDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) RecordOperationResult(op, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) RecordIdempotentReplay(op string) {
	if m == nil {
		return
	}
	m.IdempotentReplays.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordError(op, code string) {
	if m == nil {
		return
	}
	m.OperationErrors.WithLabelValues(op, code).Inc()
}

func (m *Metrics) RecordRateLookup(source string) {
	if m == nil {
		return
	}
	m.RateLookups.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordProviderAttempt(result string) {
	if m == nil {
		return
	}
	m.ProviderAttempts.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestLatency.WithLabelValues(method, path, status).Observe(d.Seconds())
}
