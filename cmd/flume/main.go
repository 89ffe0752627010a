package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/flumeio/flume/internal/analysis"
	"github.com/flumeio/flume/internal/infrastructure/config"
	"github.com/flumeio/flume/internal/infrastructure/logging"
	"github.com/flumeio/flume/internal/infrastructure/monitoring"
	"github.com/flumeio/flume/internal/pipeline"
	"github.com/flumeio/flume/internal/queue"
	"github.com/flumeio/flume/internal/server"
)

func main() {
	csvPath := flag.String("csv", "", "CSV sales file; records are streamed through the pipeline and analyzed")
	scenarioPath := flag.String("scenario", "", "YAML scenario file overriding the pipeline shape")
	serve := flag.Bool("serve", false, "expose the ops HTTP server")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *scenarioPath != "" {
		scenario, err := config.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		scenario.Apply(cfg)
	}
	if *serve {
		cfg.Server.Enabled = true
	}

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *csvPath != "" {
		err = runAnalysis(ctx, cfg, logger, metrics, *csvPath)
	} else {
		err = runSynthetic(ctx, cfg, logger, metrics)
	}
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

// runSynthetic pushes generated, uniquely tagged items through the
// pipeline and verifies the transfer.
func runSynthetic(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) error {
	q, err := queue.New[string](cfg.Queue.Capacity)
	if err != nil {
		return err
	}
	defer q.Shutdown()

	prometheus.MustRegister(monitoring.NewQueueCollector(q.Stats))
	closeOps := startOpsServer(cfg, logger, metrics, q.Stats)
	defer closeOps()

	runTag := uuid.NewString()[:8]
	sink := pipeline.NewCollector[string]()

	producers := make([]*pipeline.Producer[string], cfg.Pipeline.Producers)
	for i := range producers {
		name := fmt.Sprintf("producer-%d", i)
		src := pipeline.Generate(cfg.Pipeline.ItemsPerProducer, func(j int) string {
			return fmt.Sprintf("%s-p%d-item-%d", runTag, i, j)
		})
		producers[i] = pipeline.NewProducer(q, src,
			pipeline.WithProducerName[string](name),
			pipeline.WithProduceDelay[string](cfg.Pipeline.ProduceDelay),
			pipeline.WithOnProduce[string](func(item string) {
				metrics.ItemsProduced.WithLabelValues(name).Inc()
				logger.Debug("produced", zap.String("task", name), zap.String("item", item))
			}),
		)
	}

	consumers := make([]*pipeline.Consumer[string], cfg.Pipeline.Consumers)
	for i := range consumers {
		name := fmt.Sprintf("consumer-%d", i)
		consumers[i] = pipeline.NewConsumer[string](q, sink,
			pipeline.WithConsumerName[string](name),
			pipeline.WithPollTimeout[string](cfg.Pipeline.PollTimeout),
			pipeline.WithConsumeDelay[string](cfg.Pipeline.ConsumeDelay),
			pipeline.WithOnConsume[string](func(item string) {
				metrics.ItemsConsumed.WithLabelValues(name).Inc()
				logger.Debug("consumed", zap.String("task", name), zap.String("item", item))
			}),
		)
	}

	logger.Info("starting pipeline",
		zap.Int("capacity", cfg.Queue.Capacity),
		zap.Int("producers", len(producers)),
		zap.Int("consumers", len(consumers)),
		zap.Int("items_per_producer", cfg.Pipeline.ItemsPerProducer),
	)

	result := pipeline.NewRunner(q, producers, consumers).Run(ctx)
	metrics.RecordRun(result.Elapsed)
	logResult(logger, result, sink.Size())

	if result.Produced != result.Consumed {
		logger.Warn("transfer incomplete",
			zap.Uint64("produced", result.Produced),
			zap.Uint64("consumed", result.Consumed),
		)
	}
	return nil
}

// runAnalysis streams CSV sales records through the pipeline, then
// reports statistics over everything the consumers collected.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics, path string) error {
	return queue.Scoped(cfg.Queue.Capacity, func(q *queue.Queue[analysis.Record]) error {
		prometheus.MustRegister(monitoring.NewQueueCollector(q.Stats))
		closeOps := startOpsServer(cfg, logger, metrics, q.Stats)
		defer closeOps()

		src, err := analysis.StreamFile(path)
		if err != nil {
			return err
		}

		sink := pipeline.NewCollector[analysis.Record]()
		producer := pipeline.NewProducer(q, src,
			pipeline.WithProducerName[analysis.Record]("csv-reader"),
			pipeline.WithOnProduce[analysis.Record](func(analysis.Record) {
				metrics.ItemsProduced.WithLabelValues("csv-reader").Inc()
			}),
		)

		consumers := make([]*pipeline.Consumer[analysis.Record], cfg.Pipeline.Consumers)
		for i := range consumers {
			name := fmt.Sprintf("consumer-%d", i)
			consumers[i] = pipeline.NewConsumer[analysis.Record](q, sink,
				pipeline.WithConsumerName[analysis.Record](name),
				pipeline.WithPollTimeout[analysis.Record](cfg.Pipeline.PollTimeout),
				pipeline.WithOnConsume[analysis.Record](func(analysis.Record) {
					metrics.ItemsConsumed.WithLabelValues(name).Inc()
				}),
			)
		}

		logger.Info("streaming sales data",
			zap.String("file", path),
			zap.Int("capacity", cfg.Queue.Capacity),
			zap.Int("consumers", len(consumers)),
		)

		result := pipeline.NewRunner(q, []*pipeline.Producer[analysis.Record]{producer}, consumers).Run(ctx)
		metrics.RecordRun(result.Elapsed)
		logResult(logger, result, sink.Size())

		if err := src.Err(); err != nil {
			return fmt.Errorf("source fault after %d records: %w", result.Produced, err)
		}

		summary := analysis.NewAnalyzer(sink.Items()).Summary()
		logger.Info("sales summary",
			zap.Int("records", summary.Count),
			zap.Float64("total_revenue", summary.TotalRevenue),
			zap.Int("total_quantity", summary.TotalQuantity),
			zap.Float64("mean", summary.Mean),
			zap.Float64("median", summary.Median),
			zap.Float64("std_dev", summary.StdDev),
			zap.Float64("q1", summary.Quartiles.Q1),
			zap.Float64("q3", summary.Quartiles.Q3),
			zap.Strings("categories", summary.Categories),
			zap.Strings("regions", summary.Regions),
		)
		for _, top := range analysis.NewAnalyzer(sink.Items()).TopProductsByRevenue(5) {
			logger.Info("top product",
				zap.String("product", top.Name),
				zap.Float64("revenue", top.Revenue),
			)
		}
		return nil
	})
}

// startOpsServer runs the diagnostic HTTP server when enabled and
// returns a shutdown func.
func startOpsServer(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics, stats monitoring.StatsFunc) func() {
	if !cfg.Server.Enabled {
		return func() {}
	}
	srv := server.New(logger, metrics, stats)
	go func() {
		if err := srv.Run(cfg.Server.Addr()); err != nil {
			logger.Error("ops server error", zap.Error(err))
		}
	}()
	return func() {
		if err := srv.Close(); err != nil {
			logger.Warn("ops server shutdown error", zap.Error(err))
		}
	}
}

func logResult(logger *logging.Logger, result pipeline.Result, sinkSize int) {
	logger.Info("pipeline finished",
		zap.String("run_id", result.RunID),
		zap.Uint64("produced", result.Produced),
		zap.Uint64("consumed", result.Consumed),
		zap.Int("sink_size", sinkSize),
		zap.Duration("elapsed", result.Elapsed),
		zap.Uint64("blocked_puts", result.Queue.BlockedPuts),
		zap.Uint64("blocked_gets", result.Queue.BlockedGets),
	)
}
