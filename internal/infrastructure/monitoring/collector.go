package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flumeio/flume/internal/queue"
)

// StatsFunc supplies a queue statistics snapshot.
type StatsFunc func() queue.Stats

// QueueCollector exposes queue counters as Prometheus metrics by
// snapshotting Stats at scrape time, so the queue's hot path carries no
// metrics code.
type QueueCollector struct {
	stats StatsFunc

	added       *prometheus.Desc
	removed     *prometheus.Desc
	blockedPuts *prometheus.Desc
	blockedGets *prometheus.Desc
	depth       *prometheus.Desc
	capacity    *prometheus.Desc
}

// NewQueueCollector creates a collector over stats. Register it with
// prometheus.MustRegister or a custom registry.
func NewQueueCollector(stats StatsFunc) *QueueCollector {
	return &QueueCollector{
		stats: stats,
		added: prometheus.NewDesc(
			"flume_queue_added_total",
			"Total items ever added to the queue",
			nil, nil,
		),
		removed: prometheus.NewDesc(
			"flume_queue_removed_total",
			"Total items ever removed from the queue",
			nil, nil,
		),
		blockedPuts: prometheus.NewDesc(
			"flume_queue_blocked_puts_total",
			"Put calls that had to wait for space",
			nil, nil,
		),
		blockedGets: prometheus.NewDesc(
			"flume_queue_blocked_gets_total",
			"Get calls that had to wait for an item",
			nil, nil,
		),
		depth: prometheus.NewDesc(
			"flume_queue_depth",
			"Current number of buffered items",
			nil, nil,
		),
		capacity: prometheus.NewDesc(
			"flume_queue_capacity",
			"Fixed queue capacity",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.added
	ch <- c.removed
	ch <- c.blockedPuts
	ch <- c.blockedGets
	ch <- c.depth
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.added, prometheus.CounterValue, float64(s.Added))
	ch <- prometheus.MustNewConstMetric(c.removed, prometheus.CounterValue, float64(s.Removed))
	ch <- prometheus.MustNewConstMetric(c.blockedPuts, prometheus.CounterValue, float64(s.BlockedPuts))
	ch <- prometheus.MustNewConstMetric(c.blockedGets, prometheus.CounterValue, float64(s.BlockedGets))
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
}
