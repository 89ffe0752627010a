// Package main is the flume demo orchestrator.
//
// It wires N producers and M consumers to one bounded blocking queue
// and runs the pipeline to completion, enforcing the drain-safe order:
// join producers, shut the queue down, join consumers.
//
// Data flow:
//
//	Source → Producer(s) → BoundedQueue → Consumer(s) → Sink
//
// Modes:
//   - default: generated, uniquely tagged items; the run verifies that
//     everything produced was consumed
//   - -csv file.csv: streams sales records through the pipeline and
//     prints a statistical summary of the collected records
//
// Configuration:
//   - FLUME_* environment variables (12-factor)
//   - -scenario file.yaml overrides the pipeline shape
//   - -serve exposes /health, /stats, and /metrics on localhost
//
// Signals:
//   - SIGINT, SIGTERM: cooperative stop; tasks finish in-flight items
package main
