package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"reviewhub/internal/analytics"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/ratelimiter"
	"reviewhub/internal/review"
	"reviewhub/internal/scheduler"
	"reviewhub/internal/server"
	"reviewhub/internal/summarizer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local development convenience; absent .env is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WarnContext(ctx, "Failed to load .env file",
			"error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	summarizerInst := summarizer.FromConfig(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)

	authClient := auth.NewClient(cfg.AuthURL, cfg.AuthAnonKey, log)
	if !authClient.Configured() {
		log.WarnContext(ctx, "AUTH_URL is missing so authenticated endpoints will be unavailable",
			"envVar", "AUTH_URL")
	}

	reviews := review.NewService(db, summarizerInst, log)
	analyticsService := analytics.NewService(db)
	limiter := ratelimiter.New(cfg.SummaryMinInterval)

	srv, err := server.New(cfg.Addr, reviews, analyticsService, authClient, limiter, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize server",
			"error", err,
			"addr", cfg.Addr)

		return
	}

	sched := scheduler.New(ctx, reviews, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.HourlyBackfillSpec,
			"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HourlyBackfillSpec,
		"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

	go func() {
		if err := srv.Start(); err != nil {
			log.ErrorContext(ctx, "Server stopped unexpectedly",
				"error", err,
				"addr", cfg.Addr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.Addr,
		"env", cfg.AppEnv)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down server",
			"error", err)
	}

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}
