// Package metrics exposes Prometheus instruments for coordinator outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Metrics holds the application-level instruments. A nil *Metrics is a
// valid no-op receiver so wiring stays optional.
type Metrics struct {
	executions              *prometheus.CounterVec
	completionWriteFailures *prometheus.CounterVec
	recordsDeleted          prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashdesk_idempotency_executions_total",
			Help: "Guarded executions by operation and outcome (fresh, replayed, conflict, failed, passthrough).",
		}, []string{"operation", "outcome"}),
		completionWriteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashdesk_idempotency_completion_write_failures_total",
			Help: "Successful side effects whose COMPLETED record could not be written.",
		}, []string{"operation"}),
		recordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_idempotency_records_deleted_total",
			Help: "Expired idempotency records removed by cleanup.",
		}),
	}
	registry.MustRegister(m.executions, m.completionWriteFailures, m.recordsDeleted)
	return m
}

func (m *Metrics) IncExecution(operation, outcome string) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) IncCompletionWriteFailure(operation string) {
	if m == nil {
		return
	}
	m.completionWriteFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) AddRecordsDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.recordsDeleted.Add(float64(n))
}

var Module = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		New,
	),
)
