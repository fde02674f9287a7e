package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"studentfolio/internal/config"
	"studentfolio/internal/database"
	"studentfolio/internal/metrics"
	"studentfolio/internal/repository"
	"studentfolio/internal/storage"
	"studentfolio/internal/tasks"
	"studentfolio/internal/worker"
)

const metricsAddr = ":9091"

func main() {
	cfg := config.MustLoad()

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, nil)
	if cfg.API.LogFormat == "json" || cfg.API.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	logger := slog.New(handler).With(slog.String("service", "worker"))
	slog.SetDefault(logger)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.API.Environment}); err != nil {
			log.Fatalf("init sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	go serveMetrics(logger)

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("task failed", slog.String("type", task.Type()), slog.Any("error", err))
			if !errors.Is(err, asynq.SkipRetry) {
				sentry.CaptureException(err)
			}
		}),
	})

	previewHandler := worker.NewTemplatePreviewHandler(
		repository.NewTemplateStore(db),
		storageClient,
		worker.NewChromiumCapturer(logger),
		logger,
		cfg.Worker.PreviewQuality,
	)
	purgeHandler := worker.NewCertificatePurgeHandler(storageClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeTemplatePreview, previewHandler)
	mux.Handle(tasks.TypeCertificatePurge, purgeHandler)

	logger.Info("worker service started", slog.String("redis_addr", redisAddr), slog.Int("concurrency", cfg.Worker.Concurrency))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

func serveMetrics(logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", slog.Any("error", err))
	}
}
