// Package metrics exposes Prometheus collectors for project store operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the store collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rows       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gwen2d",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gwen2d",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Wall time of store operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"op"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gwen2d",
			Subsystem: "store",
			Name:      "rows_written_total",
			Help:      "Rows written by Save, by table.",
		}, []string{"table"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration, m.rows)
	}
	return m
}

// Observe records the outcome and duration of an operation started at start.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddRows records n rows written to table.
func (m *Metrics) AddRows(table string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rows.WithLabelValues(table).Add(float64(n))
}

// Operations returns the operation counter, for inspection in tests.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// Rows returns the rows-written counter.
func (m *Metrics) Rows() *prometheus.CounterVec {
	return m.rows
}
