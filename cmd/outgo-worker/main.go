package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"outgo/internal/amqp"
	"outgo/internal/config"
	"outgo/internal/export"
	gexport "outgo/internal/export/google"
	memexport "outgo/internal/export/memory"
	applog "outgo/internal/log"
	"outgo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logConfig := applog.DefaultConfig()
	logConfig.Component = applog.ComponentWorker
	logger := applog.New(logConfig)
	applog.SetDefault(logger)

	logger.Info("Starting outgo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var appender export.TransactionAppender
	switch cfg.ExportBackend {
	case "sheets":
		client, err := gexport.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets exporter initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	default:
		appender = memexport.New()
		logger.Info("Memory exporter initialized")
	}

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	exportWorker := worker.NewExportWorker(appender)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return exportWorker.Run(ctx, events)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
