/**
 * @description
 * This is the main entry point for the notifier-service. It runs the
 * cron scheduler that drives the subscription expiry, reminder, and
 * cleanup sweeps, plus an HTTP server exposing the in-app inbox, the
 * internal reminder-sweep trigger, and the collaborator alert entry
 * points.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/stockpilot/notifier-service/internal/api"
	"github.com/stockpilot/notifier-service/internal/app"
	"github.com/stockpilot/notifier-service/internal/config"
	"github.com/stockpilot/notifier-service/internal/store"
	"github.com/stockpilot/notifier-service/pkg/rabbitmq"
	"github.com/stockpilot/notifier-service/pkg/triggerclient"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 25
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer producer.Close()
	logger.Info("rabbitmq producer connected")

	repository := store.NewRepository(dbpool)
	dispatcher := rabbitmq.NewEmailDispatcher(producer, cfg.ReminderFromAddress)

	lifecycle := app.NewLifecycleService(repository, logger)
	reminders := app.NewReminderService(repository, dispatcher, logger)
	alerts := app.NewAlertService(repository, logger)
	cleanup := app.NewCleanupService(repository, logger)
	inbox := app.NewInboxService(repository, logger)

	var trigger app.ReminderTrigger
	if cfg.ReminderTriggerURL != "" {
		trigger = triggerclient.NewClient(cfg.ReminderTriggerURL, cfg.InternalAPIKey)
	}

	jobs := app.NewJobs(lifecycle, reminders, cleanup, trigger, cfg.Retention(), logger)
	scheduler := app.NewScheduler(jobs, logger, *cfg)
	scheduler.Start()
	logger.Info("scheduler started")

	handler := api.NewHandler(inbox, alerts, reminders, logger)
	router := api.NewRouter(handler, cfg.JWTSecret, cfg.InternalAPIKey)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal, then stop the scheduler and server as a unit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped gracefully")
}
