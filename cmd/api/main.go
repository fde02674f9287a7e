package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"studentfolio/internal/api"
	"studentfolio/internal/auth"
	"studentfolio/internal/config"
	"studentfolio/internal/database"
	"studentfolio/internal/storage"
	"studentfolio/internal/suggest"
)

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.API)
	slog.SetDefault(logger)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.API.Environment,
		}); err != nil {
			log.Fatalf("init sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	taskClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	authService, err := auth.NewAuthService(context.Background(), cfg.Auth, logger)
	if err != nil {
		log.Fatalf("init auth: %v", err)
	}
	defer authService.Close()

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, api.Dependencies{
		DB:             db,
		Redis:          redisClient,
		Tasks:          taskClient,
		Auth:           authService,
		Storage:        storageClient,
		Scanner:        storage.NewScanner(cfg.Clamd.Addr),
		Suggest:        suggest.NewClient(cfg.Suggest.URL, cfg.Suggest.Timeout),
		SuggestLimit:   cfg.Suggest.RateLimitPerHour,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}

func newLogger(cfg config.APIConfig) *slog.Logger {
	if cfg.LogFormat == "json" || cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
