package main

import (
	"context"
	"log/slog"
	"os"

	mcpadapter "github.com/wardrobeaiapp/wardrobe-assistant/internal/adapters/mcp"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/bootstrap"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/config"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	// stdout carries the protocol, so logs go to stderr.
	logger := logging.NewLoggerWithWriters("mcp", cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	engine, err := bootstrap.NewEngine(cfg.CatalogPath)
	if err != nil {
		logger.Error("engine_init_failed", "error", err)
		os.Exit(1)
	}

	// Without a wardrobe store only the engine tools are served.
	var analyzer ports.ItemAnalyzer
	if cfg.MCPWardrobeEnabled {
		app, err := bootstrap.New(context.Background(), cfg, nil)
		if err != nil {
			logger.Error("bootstrap_failed", "error", err)
			os.Exit(1)
		}
		defer app.Close()
		analyzer = app.Analyzer
		engine = app.Engine
	}
	logger.Info("mcp_starting", "wardrobe_enabled", cfg.MCPWardrobeEnabled)

	srv := mcpadapter.NewServer(analyzer, engine, logger)
	if err := srv.ServeStdio(); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
