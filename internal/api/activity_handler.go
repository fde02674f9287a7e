package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentfolio/internal/activity"
	"studentfolio/internal/database"
)

// LoginRecorder 记录登录并返回风险判定。
type LoginRecorder interface {
	RecordLogin(ctx context.Context, in activity.LoginInput) activity.LoginResult
	Recent(ctx context.Context, userID uuid.UUID) ([]database.ActivityLog, error)
}

// ActivityHandler 负责登录活动记录与查询。
type ActivityHandler struct {
	monitor LoginRecorder
}

func NewActivityHandler(monitor LoginRecorder) *ActivityHandler {
	return &ActivityHandler{monitor: monitor}
}

type recordLoginRequest struct {
	Language     string `json:"language" binding:"max=64"`
	ScreenWidth  int    `json:"screen_width" binding:"min=0,max=100000"`
	ScreenHeight int    `json:"screen_height" binding:"min=0,max=100000"`
}

// POST /v1/activity/login
// 前端在登录成功后调用；结果仅作提示，永远不会阻止登录。
func (h *ActivityHandler) RecordLogin(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req recordLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result := h.monitor.RecordLogin(c.Request.Context(), activity.LoginInput{
		UserID:       userID,
		UserAgent:    c.Request.UserAgent(),
		Language:     req.Language,
		ScreenWidth:  req.ScreenWidth,
		ScreenHeight: req.ScreenHeight,
		IP:           c.ClientIP(),
	})
	c.JSON(http.StatusOK, result)
}

// GET /v1/activity
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	logs, err := h.monitor.Recent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list activity")
		return
	}
	if logs == nil {
		logs = []database.ActivityLog{}
	}
	c.JSON(http.StatusOK, logs)
}
