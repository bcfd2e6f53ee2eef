package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"outgo/internal/amqp"
	"outgo/internal/cache"
	"outgo/internal/config"
	"outgo/internal/httpapi"
	applog "outgo/internal/log"
	"outgo/internal/middleware/ratelimit"
	"outgo/internal/service"
	"outgo/internal/storage"
	memstore "outgo/internal/storage/memory"
	"outgo/internal/storage/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var store storage.TransactionStore
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store = memstore.New()
		logger.Info("Initialized memory backend")
	}

	// Event publishing is optional; without a broker URL transactions are
	// still persisted, just not mirrored by the export worker.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := service.NewTransactionService(store, events)
	defer svc.Close()

	api := httpapi.NewAPI(svc, httpapi.Options{
		CORSOrigin:      cfg.CORSOrigin,
		CacheTTL:        cfg.CacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	})
	defer api.Stop()

	cacheManager := cache.NewManager()
	cacheManager.Register(api.ListCache())
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	srv := httpapi.NewServer(":"+cfg.Port, api)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting outgo server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
