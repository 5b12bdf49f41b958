package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"patrimonio/internal/config"
	"patrimonio/internal/events"
	applog "patrimonio/internal/log"
	"patrimonio/internal/store"
	"patrimonio/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting patrimonio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	kv, err := store.Open(cfg.DataBackend, cfg.DataDir, cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer kv.Close()

	// The consumer is optional: without AMQP the worker only snapshots on
	// the configured interval.
	var client *events.Client
	if cfg.AMQPURL != "" {
		client, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		logger.Info("Consuming change events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, running interval snapshots only",
			"interval", cfg.SnapshotInterval.String())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewSnapshotWorker(kv, cfg.SnapshotDir)

	// Take a startup snapshot so a fresh deployment has a baseline.
	if err := w.Snapshot(ctx); err != nil {
		logger.Error("Startup snapshot failed", "error", err)
	}

	if err := w.Run(ctx, client, cfg.SnapshotInterval); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
