package api

import (
	"errors"
	"log/slog"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/errcode"
	"studentfolio/internal/portfolio"
	"studentfolio/internal/repository"
	"studentfolio/internal/storage"
	"studentfolio/internal/suggest"
)

// Error 写出统一的错误响应体。
func Error(c *gin.Context, status, code int, msg string) {
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": errcode.Unauthorized})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, errcode.InvalidInput, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, errcode.Forbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, errcode.ResourceMissing, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, errcode.SlugTaken, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, errcode.SystemError, msg) }

// respondError 把领域错误映射为 HTTP 状态码；未识别的错误记录日志并上报 Sentry。
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "not found")
	case errors.Is(err, repository.ErrSlugTaken):
		Conflict(c, "slug already taken")
	case errors.Is(err, portfolio.ErrSlugRequired), errors.Is(err, portfolio.ErrInvalidSlug):
		BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		Error(c, http.StatusRequestEntityTooLarge, errcode.FileTooLarge, err.Error())
	case errors.Is(err, storage.ErrUnsupportedFile), errors.Is(err, storage.ErrInfected):
		Error(c, http.StatusBadRequest, errcode.UnsupportedFile, err.Error())
	case errors.Is(err, suggest.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, errcode.Unauthorized, err.Error())
	case errors.Is(err, suggest.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, errcode.RateLimited, err.Error())
	case errors.Is(err, suggest.ErrUsageCapReached):
		Error(c, http.StatusPaymentRequired, errcode.UsageCapReached, err.Error())
	case errors.Is(err, suggest.ErrUpstream), errors.Is(err, suggest.ErrNotConfigured):
		Error(c, http.StatusBadGateway, errcode.UpstreamError, err.Error())
	default:
		middleware.LoggerFromContext(c).Error(fallback, slog.Any("error", err))
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		Internal(c, fallback)
	}
}
