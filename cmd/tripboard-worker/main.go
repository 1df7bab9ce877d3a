package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tripboard/internal/amqp"
	"tripboard/internal/config"
	applog "tripboard/internal/log"
	"tripboard/internal/rows"
	"tripboard/internal/rows/hosted"
	"tripboard/internal/rows/sqlitestore"
	"tripboard/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting tripboard-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker always reads from the hosted store and writes the mirror.
	source, err := hosted.NewClient(hosted.Config{
		Endpoint:   cfg.HostedEndpoint,
		ProjectID:  cfg.HostedProjectID,
		APIKey:     cfg.HostedAPIKey,
		DatabaseID: cfg.HostedDatabaseID,
	})
	if err != nil {
		logger.Error("Failed to initialize hosted row store client", "error", err)
		os.Exit(1)
	}

	mirror, err := sqlitestore.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite mirror", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tables := rows.Tables{Users: cfg.UsersTableID, Trips: cfg.TripsTableID}
	mirrorWorker := worker.NewMirrorWorker(source, mirror, cfg.MirrorBatchSize)

	// On startup, copy everything once to recover from missed messages.
	logger.Info("Performing startup backfill...")
	if err := mirrorWorker.StartupBackfill(ctx, tables); err != nil {
		logger.Error("Startup backfill failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		handler := func(msg *amqp.RowMirrorMessage) error {
			return mirrorWorker.HandleMirrorMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeRowMirror(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic backfill catches rows whose messages were lost.
	ticker := time.NewTicker(cfg.MirrorInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := mirrorWorker.StartupBackfill(ctx, tables); err != nil {
					logger.Error("Periodic backfill failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight delivery a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
