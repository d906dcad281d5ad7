// Package metrics exposes generation counters and timings in the Prometheus
// text format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edi834"

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder observes operation outcomes. The service depends on this interface
// so tests and the CLI can run without a registry.
type Recorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	Generated(members, segments int)
}

// NopRecorder discards observations.
type NopRecorder struct{}

func (NopRecorder) Observe(context.Context, string, bool, time.Duration) {}
func (NopRecorder) Generated(int, int)                                  {}

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Documents  prometheus.Counter
	Members    prometheus.Counter
	Segments   prometheus.Counter
}

// New registers the generator collectors plus the Go runtime and process
// collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations by name and result.",
		}, []string{"operation", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		Documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Documents written.",
		}),
		Members: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_generated_total",
			Help:      "Member loops written.",
		}),
		Segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_generated_total",
			Help:      "Segments written, envelope included.",
		}),
	}

	m.registry.MustRegister(
		m.Operations, m.Duration, m.Documents, m.Members, m.Segments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe implements Recorder.
func (m *Metrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	result := ResultError
	if success {
		result = ResultSuccess
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.Duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Generated implements Recorder.
func (m *Metrics) Generated(members, segments int) {
	m.Documents.Inc()
	m.Members.Add(float64(members))
	m.Segments.Add(float64(segments))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
