// Package server provides the optional ops HTTP surface for a running
// pipeline.
//
// Routes:
//   - GET /health: liveness probe
//   - GET /stats: queue statistics snapshot as JSON
//   - GET /metrics: Prometheus exposition
//
// The server is diagnostic only and defaults to localhost; the queue
// itself has no wire protocol.
package server
