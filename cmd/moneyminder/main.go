package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cjaradhye/money-minder/internal/amqp"
	"github.com/cjaradhye/money-minder/internal/config"
	apphttp "github.com/cjaradhye/money-minder/internal/http"
	applog "github.com/cjaradhye/money-minder/internal/log"
	"github.com/cjaradhye/money-minder/internal/seed"
	"github.com/cjaradhye/money-minder/internal/services"
	"github.com/cjaradhye/money-minder/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentApp)
	applog.SetDefault(logger)

	demoData := flag.Bool("demo-data", false, "seed the database with generated demo data and exit")
	flag.Parse()

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

	if cfg.SeedFile != "" {
		seedFile, err := seed.Load(cfg.SeedFile)
		if err != nil {
			logger.Error("Failed to load seed file", "error", err, "path", cfg.SeedFile)
			os.Exit(1)
		}
		if err := seed.Apply(context.Background(), repo, seedFile); err != nil {
			logger.Error("Failed to apply seed", "error", err)
			os.Exit(1)
		}
	}

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

	viewCache := apphttp.NewViewCache(cfg.SummaryCacheSize, cfg.SummaryCacheTTL)

	var publisher services.EventPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	transactions := services.NewTransactionService(repo, publisher, viewCache)
	imports := services.NewImportService(repo, transactions)
	alerts := services.NewAlertService(repo)

	if *demoData {
		gen := services.NewDemoDataGenerator(repo, transactions, uint64(time.Now().UnixNano()))
		if err := gen.Generate(context.Background(), 3, 40); err != nil {
			logger.Error("Demo data generation failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Demo data generated, exiting")
		return
	}

	srv := apphttp.NewServer(":"+cfg.Port, repo, transactions, imports, alerts, viewCache)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
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

	logger.Info("Starting moneyminder server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
