package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/review-center/internal/config"
	"github.com/aliskhannn/review-center/internal/delivery/httpapi"
	"github.com/aliskhannn/review-center/internal/infra/postgres"
	"github.com/aliskhannn/review-center/internal/logger"
	"github.com/aliskhannn/review-center/internal/notify"
	"github.com/aliskhannn/review-center/internal/repository"
	"github.com/aliskhannn/review-center/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zlog.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Bootstrap(ctx, pool); err != nil {
		zlog.Fatal("failed to bootstrap schema", zap.Error(err))
	}

	questionRepo, err := repository.NewQuestionRepository(cfg.QuestionsJSONPath)
	if err != nil {
		zlog.Fatal("failed to load question catalog", zap.Error(err))
	}

	reviewRepo := repository.NewReviewRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	reviewService := service.NewReviewService(reviewRepo)
	sessionService := service.NewSessionService(ctx, questionRepo, snapshotRepo, reviewRepo, zlog)

	if cfg.Telegram.Enabled() {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.APIToken, cfg.Telegram.ReviewerChatID, zlog)
		if err != nil {
			zlog.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			sessionService.SetNotifier(notifier)
		}
	}

	janitor := service.NewSnapshotJanitor(snapshotRepo, cfg.SnapshotTTL, zlog)
	go janitor.Start(ctx)

	handler := httpapi.NewHandler(zlog, reviewService, sessionService, questionRepo)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Routes(),
	}

	go func() {
		zlog.Info("http server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http server shutdown", zap.Error(err))
	}
}
