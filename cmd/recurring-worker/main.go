// The recurring worker materializes due recurring templates on a cron
// schedule, by default shortly after midnight.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/cjaradhye/money-minder/internal/amqp"
	"github.com/cjaradhye/money-minder/internal/config"
	"github.com/cjaradhye/money-minder/internal/core"
	applog "github.com/cjaradhye/money-minder/internal/log"
	"github.com/cjaradhye/money-minder/internal/services"
	"github.com/cjaradhye/money-minder/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentRecurring)
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	var publisher services.EventPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	transactions := services.NewTransactionService(repo, publisher, nil)
	processor := services.NewRecurringProcessor(repo, transactions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := func() {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer runCancel()

		count, err := processor.ProcessDue(runCtx, core.Today())
		if err != nil {
			logger.Error("Recurring processing failed", "error", err)
			return
		}
		logger.Info("Recurring processing complete", "transactions_created", count)
	}

	// Catch up on anything missed while the worker was down.
	logger.Info("Running initial recurring processing...")
	run()

	c := cron.New()
	if _, err := c.AddFunc(cfg.RecurringSchedule, run); err != nil {
		logger.Error("Invalid recurring schedule", "schedule", cfg.RecurringSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("Recurring processor scheduled", "schedule", cfg.RecurringSchedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
	logger.Info("Recurring-worker shutdown complete")
}
