/*
Package monitoring provides Prometheus metrics for the pipeline.

# Overview

Queue counters are exposed through QueueCollector, which snapshots
queue.Stats at scrape time instead of instrumenting the queue's hot
path. Per-task throughput is fed through the pipeline's callback hooks,
and the ops server records its own HTTP traffic via the Gin middleware.

# Usage

	metrics := monitoring.NewMetrics()
	prometheus.MustRegister(monitoring.NewQueueCollector(q.Stats))

	p := pipeline.NewProducer(q, src,
		pipeline.WithOnProduce[Item](func(Item) {
			metrics.ItemsProduced.WithLabelValues("producer-1").Inc()
		}),
	)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
