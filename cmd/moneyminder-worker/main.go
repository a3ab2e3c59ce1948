// The worker consumes transaction-created events, re-evaluates alerts for the
// affected month, and optionally mirrors the transaction to a Google Sheet.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cjaradhye/money-minder/internal/amqp"
	"github.com/cjaradhye/money-minder/internal/config"
	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/export/google"
	applog "github.com/cjaradhye/money-minder/internal/log"
	"github.com/cjaradhye/money-minder/internal/services"
	"github.com/cjaradhye/money-minder/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting moneyminder-worker")

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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alerts := services.NewAlertService(repo)

	var mirror *google.Mirror
	if cfg.SheetsEnabled {
		mirror, err = google.NewMirror(context.Background(), google.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			CredsFile:     cfg.GoogleCredsFile,
			CredsJSON:     cfg.GoogleCredsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	handler := func(msg *amqp.TransactionCreatedMessage) error {
		handleCtx, handleCancel := context.WithTimeout(ctx, 30*time.Second)
		defer handleCancel()

		month := core.MonthYear(msg.MonthYear)
		if !month.Valid() {
			// Drop rather than requeue: the message will never become valid.
			logger.Warn("Skipping event with invalid month", "id", msg.ID, "month_year", msg.MonthYear)
			return nil
		}

		if _, err := alerts.EvaluateMonth(handleCtx, month, core.Today()); err != nil {
			return fmt.Errorf("evaluate alerts: %w", err)
		}

		if mirror != nil {
			tx, err := repo.GetTransaction(handleCtx, msg.ID)
			if err != nil {
				return fmt.Errorf("load transaction %s: %w", msg.ID, err)
			}
			if err := mirror.Append(handleCtx, tx, categoryName(handleCtx, repo, tx.CategoryID)); err != nil {
				return fmt.Errorf("mirror transaction %s: %w", msg.ID, err)
			}
		}
		return nil
	}

	if err := amqpClient.ConsumeTransactionCreated(ctx, handler); err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped unexpectedly", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}

func categoryName(ctx context.Context, repo *storage.SQLiteRepository, categoryID string) string {
	if categoryID == "" {
		return ""
	}
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return ""
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Name
		}
	}
	return ""
}
