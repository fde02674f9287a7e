package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/database"
	"studentfolio/internal/repository"
)

// ProfileHandler 负责用户资料的读取与更新。
type ProfileHandler struct {
	profiles repository.ProfileStore
}

func NewProfileHandler(profiles repository.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type updateProfileRequest struct {
	FullName     string `json:"full_name" binding:"max=255"`
	Bio          string `json:"bio" binding:"max=5000"`
	Email        string `json:"email" binding:"omitempty,email,max=255"`
	Phone        string `json:"phone" binding:"max=64"`
	Location     string `json:"location" binding:"max=255"`
	LinkedinURL  string `json:"linkedin_url" binding:"omitempty,url,max=512"`
	GithubURL    string `json:"github_url" binding:"omitempty,url,max=512"`
	PortfolioURL string `json:"portfolio_url" binding:"omitempty,url,max=512"`
	AvatarURL    string `json:"avatar_url" binding:"omitempty,url,max=512"`
}

// GET /v1/profile
// 首次访问时创建最小资料，邮箱取自访问令牌。
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profile, err := h.profiles.Ensure(c.Request.Context(), userID, c.GetString(middleware.UserEmailKey))
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /v1/profile
// 只更新资料字段，公开主页设置由 /v1/portfolio/settings 维护。
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profiles.Ensure(ctx, userID, c.GetString(middleware.UserEmailKey)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	update := &database.Profile{
		UserID:       userID,
		FullName:     strings.TrimSpace(req.FullName),
		Bio:          strings.TrimSpace(req.Bio),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Location:     strings.TrimSpace(req.Location),
		LinkedinURL:  strings.TrimSpace(req.LinkedinURL),
		GithubURL:    strings.TrimSpace(req.GithubURL),
		PortfolioURL: strings.TrimSpace(req.PortfolioURL),
		AvatarURL:    strings.TrimSpace(req.AvatarURL),
	}
	if err := h.profiles.Update(ctx, update); err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
