package api

import (
	"log/slog"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/config"
	"studentfolio/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎并挂载全局中间件、健康检查与指标端点。
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	if cfg.API.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = multipartMemory
	router.Use(
		gin.Recovery(),
		sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}),
		cors.New(cors.Config{
			AllowOrigins:     cfg.API.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Correlation-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware("/health", "/metrics"),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
