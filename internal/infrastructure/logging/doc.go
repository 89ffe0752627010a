// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// The queue and pipeline packages stay log-free; logging happens in the
// binaries and the ops server, fed by the pipeline's callback hooks.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("pipeline started", zap.Int("capacity", 10))
//	logger.Error("run failed", zap.Error(err))
package logging
