package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics fed by the pipeline's callback
// hooks and the ops server.
type Metrics struct {
	// Pipeline metrics
	ItemsProduced *prometheus.CounterVec
	ItemsConsumed *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	RunsTotal     prometheus.Counter

	// HTTP metrics (ops server)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector registered on the default
// registry. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		ItemsProduced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flume_items_produced_total",
				Help: "Total items put into the queue, by producer",
			},
			[]string{"producer"},
		),
		ItemsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flume_items_consumed_total",
				Help: "Total items appended to the sink, by consumer",
			},
			[]string{"consumer"},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flume_run_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		RunsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flume_runs_total",
				Help: "Total number of pipeline runs",
			},
		),
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flume_http_requests_total",
				Help: "Total number of ops server HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flume_http_request_duration_seconds",
				Help:    "Ops server HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
	}
}

// RecordRun records one completed pipeline run.
func (m *Metrics) RecordRun(d time.Duration) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records one ops server request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
