// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record outcomes reported to RecordsTotal.
const (
	OutcomeKept     = "kept"
	OutcomeFiltered = "filtered"
	OutcomeSkipped  = "skipped"
)

// Metrics holds the counters for one invocation. All methods are safe on a
// nil receiver so components can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts E-utilities requests by endpoint and status.
	RequestsTotal *prometheus.CounterVec

	// RecordsTotal counts parsed records by outcome (kept, filtered, skipped).
	RecordsTotal *prometheus.CounterVec

	// BatchDuration observes the wall time of each efetch batch in seconds.
	BatchDuration prometheus.Histogram

	// PapersKept is the number of papers in the final report.
	PapersKept prometheus.Gauge
}

// NewMetrics creates a Metrics instance on its own registry. The namespace
// prefixes every metric name.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of E-utilities requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		RecordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total number of article records by parse outcome",
		}, []string{"outcome"}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of efetch batches in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		PapersKept: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "papers_kept",
			Help:      "Number of papers with at least one industry author",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest counts one request to endpoint with the given status label.
func (m *Metrics) ObserveRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// ObserveRecord counts one record with the given outcome.
func (m *Metrics) ObserveRecord(outcome string) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBatch records the duration of one efetch batch.
func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(d.Seconds())
}

// SetPapersKept sets the final paper count.
func (m *Metrics) SetPapersKept(n int) {
	if m == nil {
		return
	}
	m.PapersKept.Set(float64(n))
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
