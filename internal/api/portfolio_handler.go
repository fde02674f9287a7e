package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/portfolio"
	"studentfolio/internal/repository"
)

// PortfolioService 是公开主页相关的业务能力。
type PortfolioService interface {
	Settings(ctx context.Context, userID uuid.UUID) (portfolio.Settings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, in portfolio.SettingsInput) (portfolio.Settings, error)
	Readiness(ctx context.Context, userID uuid.UUID) (portfolio.ReadinessReport, error)
	PublicPage(ctx context.Context, slug string) (*portfolio.PublicPage, error)
}

// PortfolioHandler 负责公开主页设置、完成度与公开页面。
type PortfolioHandler struct {
	service  PortfolioService
	profiles repository.ProfileStore
}

func NewPortfolioHandler(service PortfolioService, profiles repository.ProfileStore) *PortfolioHandler {
	return &PortfolioHandler{service: service, profiles: profiles}
}

type updateSettingsRequest struct {
	IsPublic        bool           `json:"is_public"`
	PublicSlug      string         `json:"public_slug" binding:"max=128"`
	VisibleSections map[string]any `json:"visible_sections"`
}

func (h *PortfolioHandler) ensureProfile(c *gin.Context, userID uuid.UUID) bool {
	if _, err := h.profiles.Ensure(c.Request.Context(), userID, c.GetString(middleware.UserEmailKey)); err != nil {
		respondError(c, err, "failed to load profile")
		return false
	}
	return true
}

// GET /v1/portfolio/settings
func (h *PortfolioHandler) GetSettings(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	if !h.ensureProfile(c, userID) {
		return
	}

	settings, err := h.service.Settings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load portfolio settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /v1/portfolio/settings
// 公开时 slug 必填，校验失败不会创建资料；slug 冲突返回 409。
func (h *PortfolioHandler) UpdateSettings(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), userID, portfolio.SettingsInput{
		IsPublic:        req.IsPublic,
		PublicSlug:      req.PublicSlug,
		VisibleSections: req.VisibleSections,
		Email:           c.GetString(middleware.UserEmailKey),
	})
	if err != nil {
		respondError(c, err, "failed to update portfolio settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// POST /v1/portfolio/slug
// 生成一个随机 slug 供用户参考，不会写库。
func (h *PortfolioHandler) SuggestSlug(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	slug, err := portfolio.GenerateSlug()
	if err != nil {
		respondError(c, err, "failed to generate slug")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug})
}

// GET /v1/portfolio/readiness
func (h *PortfolioHandler) GetReadiness(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	report, err := h.service.Readiness(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to compute readiness")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /v1/public/:slug
// 无需登录；不存在或未公开统一返回 404。
func (h *PortfolioHandler) GetPublicPortfolio(c *gin.Context) {
	page, err := h.service.PublicPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			NotFound(c, "portfolio not found")
			return
		}
		respondError(c, err, "failed to load portfolio")
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, page)
}
