package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"patrimonio/internal/config"
	"patrimonio/internal/events"
	apphttp "patrimonio/internal/http"
	"patrimonio/internal/journal"
	"patrimonio/internal/ledger"
	applog "patrimonio/internal/log"
	"patrimonio/internal/report"
	"patrimonio/internal/store"
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

	kv, err := store.Open(cfg.DataBackend, cfg.DataDir, cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer kv.Close()
	logger.Info("Store opened", "backend", cfg.DataBackend)

	ctx := context.Background()

	assets, err := ledger.NewAssetLedger(ctx, kv)
	if err != nil {
		logger.Error("Failed to load asset ledger", "error", err)
		os.Exit(1)
	}
	liabilities, err := ledger.NewLiabilityLedger(ctx, kv)
	if err != nil {
		logger.Error("Failed to load liability ledger", "error", err)
		os.Exit(1)
	}
	incomes, err := journal.NewIncomeJournal(ctx, kv, assets)
	if err != nil {
		logger.Error("Failed to load income journal", "error", err)
		os.Exit(1)
	}
	expenditures, err := journal.NewExpenditureJournal(ctx, kv, liabilities)
	if err != nil {
		logger.Error("Failed to load expenditure journal", "error", err)
		os.Exit(1)
	}
	reports := report.NewAggregator(assets, liabilities, incomes, expenditures)

	// Change events are optional; the tracker works fine without a broker.
	var ev *events.Client
	if cfg.AMQPURL != "" {
		ev, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Change events disabled, AMQP unavailable", "error", err)
			ev = nil
		} else {
			defer ev.Close()
			logger.Info("Change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, assets, liabilities, incomes, expenditures, reports, ev)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting patrimonio server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-runCtx.Done()
	logger.Info("Server stopped gracefully")
}
