// Package analysis loads sales transaction records from CSV and
// computes statistics over them. Records can be streamed through the
// pipeline via a pipeline.Source adapter, so the analysis workload
// exercises the same bounded queue as any other producer.
package analysis
