package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeServed    = "served"
	OutcomeExhausted = "exhausted"
	OutcomeRecorded  = "recorded"
	OutcomeInvalid   = "invalid"
	OutcomeOK        = "ok"
	OutcomeError     = "error"
)

// Metrics holds the service's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// emailFetches counts next-email requests.
	// Labels: outcome (served, exhausted, error)
	emailFetches *prometheus.CounterVec

	// events counts event submissions.
	// Labels: outcome (recorded, invalid, error)
	events *prometheus.CounterVec

	// scoreRequests counts text scoring requests.
	// Labels: model, outcome
	scoreRequests *prometheus.CounterVec

	// eventAppendLatency measures event log append time in seconds
	eventAppendLatency prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		emailFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phishplay",
			Subsystem: "emails",
			Name:      "fetches_total",
			Help:      "Total next-email requests by outcome",
		}, []string{"outcome"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phishplay",
			Subsystem: "events",
			Name:      "submissions_total",
			Help:      "Total event submissions by outcome",
		}, []string{"outcome"}),
		scoreRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phishplay",
			Subsystem: "scoring",
			Name:      "requests_total",
			Help:      "Total text scoring requests by model and outcome",
		}, []string{"model", "outcome"}),
		eventAppendLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "phishplay",
			Subsystem: "events",
			Name:      "append_duration_seconds",
			Help:      "Event log append latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
	}
}

// RecordFetch counts a next-email request
func (m *Metrics) RecordFetch(outcome string) {
	m.emailFetches.WithLabelValues(outcome).Inc()
}

// RecordEvent counts an event submission and, when it reached the store, its append latency
func (m *Metrics) RecordEvent(outcome string, took time.Duration) {
	m.events.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalid {
		m.eventAppendLatency.Observe(took.Seconds())
	}
}

// RecordScore counts a scoring request
func (m *Metrics) RecordScore(model, outcome string) {
	m.scoreRequests.WithLabelValues(model, outcome).Inc()
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
