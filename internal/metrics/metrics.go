// Package metrics records Prometheus metrics for the connection layer.
//
// Metrics live in their own registry so a run can dump exactly what it did
// to a node-exporter textfile with WriteTextfile. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "embedclock"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the connection layer collectors.
type Metrics struct {
	registry *prometheus.Registry

	ConnectsTotal    *prometheus.CounterVec
	DisconnectsTotal *prometheus.CounterVec
	QueriesTotal     *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	SessionsOpen     prometheus.Gauge
}

// New creates a Metrics instance with a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		ConnectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connects_total",
				Help:      "Total number of connect attempts",
			},
			[]string{"engine", "outcome"},
		),

		DisconnectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "disconnects_total",
				Help:      "Total number of sessions detached",
			},
			[]string{"engine", "outcome"},
		),

		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scalar_queries_total",
				Help:      "Total number of scalar queries",
			},
			[]string{"engine", "outcome"},
		),

		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scalar_query_duration_seconds",
				Help:      "Scalar query duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"engine"},
		),

		SessionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_open",
				Help:      "Number of open engine sessions",
			},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveConnect records a connect attempt.
func (m *Metrics) ObserveConnect(engine string, err error) {
	if m == nil {
		return
	}
	m.ConnectsTotal.WithLabelValues(engine, outcome(err)).Inc()
	if err == nil {
		m.SessionsOpen.Inc()
	}
}

// ObserveDisconnect records a detached session. The session counts as
// closed even when detaching failed.
func (m *Metrics) ObserveDisconnect(engine string, err error) {
	if m == nil {
		return
	}
	m.DisconnectsTotal.WithLabelValues(engine, outcome(err)).Inc()
	m.SessionsOpen.Dec()
}

// ObserveQuery records a scalar query and how long it took.
func (m *Metrics) ObserveQuery(engine string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(engine, outcome(err)).Inc()
	m.QueryDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// WriteTextfile writes the current metrics to path in the Prometheus text
// format, for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
