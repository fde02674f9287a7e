package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/errcode"
	"studentfolio/internal/metrics"
	"studentfolio/internal/suggest"
)

const suggestionWindow = time.Hour

// Suggester 调用外部 AI 建议服务。
type Suggester interface {
	Suggest(ctx context.Context, bearerToken string, req suggest.Request) ([]suggest.Suggestion, error)
}

// SuggestionHandler 转发 AI 建议请求，并按用户限流。
// 上游收到的 data 总是服务端汇总的资料与条目，客户端提交的 data 被忽略。
type SuggestionHandler struct {
	client  Suggester
	records RecordLoader
	counter redisRateCounter
	limit   int
}

// NewSuggestionHandler 构造 SuggestionHandler。counter 为 nil 或 limit<=0 时不限流。
func NewSuggestionHandler(client Suggester, records RecordLoader, counter redisRateCounter, limit int) *SuggestionHandler {
	return &SuggestionHandler{client: client, records: records, counter: counter, limit: limit}
}

type suggestionRequest struct {
	Type        string `json:"type" binding:"required"`
	CurrentText string `json:"currentText" binding:"max=5000"`
}

// POST /v1/suggestions
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req suggestionRequest
	if !bindJSON(c, &req) {
		return
	}
	kind, ok := suggest.ParseType(req.Type)
	if !ok {
		BadRequest(c, "type must be one of: summary, project, achievement, skill")
		return
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	if h.counter != nil && h.limit > 0 {
		bucket := time.Now().UTC().Truncate(suggestionWindow).Unix()
		key := fmt.Sprintf("suggest:rate:%s:%d", userID, bucket)
		count, err := incrWithTTL(ctx, h.counter, key, suggestionWindow)
		switch {
		case err != nil:
			log.Warn("suggestion rate counter unavailable", slog.Any("error", err))
		case count > int64(h.limit):
			metrics.ObserveSuggestion("limited")
			Error(c, http.StatusTooManyRequests, errcode.RateLimited, "suggestion limit reached, try again later")
			return
		}
	}

	rec, err := h.records.Record(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load resume data")
		return
	}

	suggestions, err := h.client.Suggest(ctx, c.GetString(middleware.AccessTokenKey), suggest.Request{
		Type:        kind,
		Data:        rec,
		CurrentText: req.CurrentText,
	})
	if err != nil {
		metrics.ObserveSuggestion(suggestionOutcome(err))
		if errors.Is(err, suggest.ErrUpstream) {
			log.Warn("suggestion upstream failed", slog.Any("error", err))
		}
		respondError(c, err, "failed to fetch suggestions")
		return
	}

	metrics.ObserveSuggestion("ok")
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func suggestionOutcome(err error) string {
	switch {
	case errors.Is(err, suggest.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, suggest.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, suggest.ErrUsageCapReached):
		return "usage_cap"
	default:
		return "error"
	}
}
