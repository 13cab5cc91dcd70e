package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kantoku/kantoku/internal/api"
	"github.com/kantoku/kantoku/internal/compute"
	"github.com/kantoku/kantoku/internal/config"
	"github.com/kantoku/kantoku/internal/dataset"
	"github.com/kantoku/kantoku/internal/jobs"
	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/models"
	"github.com/kantoku/kantoku/internal/progress"
	"github.com/kantoku/kantoku/internal/quiz"
	"github.com/kantoku/kantoku/internal/scheduler"
	"github.com/kantoku/kantoku/internal/services"
	"github.com/kantoku/kantoku/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Kantoku Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("dataset_path=%s", cfg.DatasetPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_tags=%v", cfg.DefaultTags)
	log.Debug("visible_cards=%d", cfg.VisibleCards)
	log.Debug("refresh_interval_minutes=%d", cfg.RefreshIntervalMinutes)

	// Open the key-value store
	kv, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing store")
		kv.Close()
	}()

	// Background compute workers: one for position math, one for shuffling
	// and answer verification.
	positionWorker := compute.NewWorker("positions")
	verifyWorker := compute.NewWorker("verify")

	ctx, cancel := context.WithCancel(context.Background())
	positionWorker.Start(ctx)
	verifyWorker.Start(ctx)

	// Core components
	loader := dataset.NewLoader(cfg.DatasetPath, kv)
	migrator := progress.NewMigrator(kv)
	ledger := progress.NewLedger(kv, verifyWorker)
	sched := scheduler.New(ledger, positionWorker, cfg.VisibleCards, float64(cfg.DefaultViewportHeight))

	sessionService := services.NewSessionService(loader, migrator, ledger, sched, verifyWorker, cfg.DefaultTags)
	if err := sessionService.Start(ctx); err != nil {
		log.Error("failed to start session: %v", err)
		os.Exit(1)
	}

	cards := func() []models.Card {
		c, _ := sessionService.Cards(context.Background())
		return c
	}
	quizService := services.NewQuizService(
		ledger,
		quiz.NewSampler(),
		quiz.NewStats(kv),
		quiz.NewHistory(kv),
		verifyWorker,
		cards,
	)

	refreshJob := jobs.NewRefreshJob(sessionService, time.Duration(cfg.RefreshIntervalMinutes)*time.Minute)
	refreshJob.Start()

	srv := &api.Server{
		SessionService: sessionService,
		QuizService:    quizService,
		DB:             kv.DB(),
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping refresh job")
	refreshJob.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping compute workers")
	cancel()
	positionWorker.Stop()
	verifyWorker.Stop()

	log.Info("===========================================")
	log.Info("Kantoku Server Stopped")
	log.Info("===========================================")
}
