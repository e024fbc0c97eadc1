package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/bootstrap"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/config"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/queue/nats"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/logging"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/metrics"
)

const metricsService = "worker"

func main() {
	cfg := config.Load()
	logger, closeLog := logging.NewLogger("worker", cfg.LogLevel, cfg.LogFile)
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(metricsService)
	app, err := bootstrap.New(ctx, cfg, workerMetrics.AnalysisMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if app.Extractor == nil {
		slog.Error("worker_requires_llm", "llm_provider", cfg.LLMProvider)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "queue_group", cfg.NATSQueueGroup)
	err = app.Queue.SubscribeItemAdded(ctx, func(handlerCtx context.Context, itemID string) error {
		if publishedAt, ok := nats.PublishedAt(handlerCtx); ok {
			workerMetrics.ObserveQueueLag(time.Since(publishedAt))
		}

		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.WorkerTimeout)
		defer cancel()

		start := time.Now()
		workerMetrics.StartItem()
		err := app.Extractor.ExtractByID(processCtx, itemID)
		workerMetrics.FinishItem(time.Since(start), err)
		if err == nil {
			slog.Info("item_extracted", "item_id", itemID, "duration_ms", time.Since(start).Milliseconds())
		}
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
