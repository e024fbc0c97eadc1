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

	httpadapter "github.com/wardrobeaiapp/wardrobe-assistant/internal/adapters/http"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/bootstrap"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/config"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/logging"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger, closeLog := logging.NewLogger("api", cfg.LogLevel, cfg.LogFile)
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, httpMetrics.AnalysisMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	opts := []httpadapter.RouterOption{httpadapter.WithMetrics(httpMetrics)}
	for name, check := range app.ReadinessChecks() {
		opts = append(opts, httpadapter.WithReadinessCheck(name, check))
	}
	router, err := httpadapter.NewRouter(cfg, app.Catalogue, app.Analyzer, app.Importer, app.Engine, opts...)
	if err != nil {
		slog.Error("router_init_failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
