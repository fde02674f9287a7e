package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentfolio/internal/database"
	"studentfolio/internal/portfolio"
	"studentfolio/internal/repository"
)

// entryRequest 把请求体转换为待写入的实体，校验失败返回面向用户的错误。
type entryRequest[T any] interface {
	toModel(userID uuid.UUID) (T, error)
}

// EntryHandler 为技能、教育经历、项目、成就提供统一的增删改查。
type EntryHandler[T any, R entryRequest[T]] struct {
	store repository.OwnedStore[T]
	name  string
}

func newEntryHandler[T any, R entryRequest[T]](store repository.OwnedStore[T], name string) *EntryHandler[T, R] {
	return &EntryHandler[T, R]{store: store, name: name}
}

// NewSkillHandler 返回技能处理器。
func NewSkillHandler(store repository.SkillStore) *EntryHandler[database.Skill, skillRequest] {
	return newEntryHandler[database.Skill, skillRequest](store, "skill")
}

// NewEducationHandler 返回教育经历处理器。
func NewEducationHandler(store repository.EducationStore) *EntryHandler[database.Education, educationRequest] {
	return newEntryHandler[database.Education, educationRequest](store, "education")
}

// NewProjectHandler 返回项目处理器。
func NewProjectHandler(store repository.ProjectStore) *EntryHandler[database.Project, projectRequest] {
	return newEntryHandler[database.Project, projectRequest](store, "project")
}

// NewAchievementHandler 返回成就处理器。
func NewAchievementHandler(store repository.AchievementStore) *EntryHandler[database.Achievement, achievementRequest] {
	return newEntryHandler[database.Achievement, achievementRequest](store, "achievement")
}

func (h *EntryHandler[T, R]) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	items, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list "+h.name+" entries")
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *EntryHandler[T, R]) Create(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req R
	if !bindJSON(c, &req) {
		return
	}
	item, err := req.toModel(userID)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.store.Create(c.Request.Context(), &item); err != nil {
		respondError(c, err, "failed to create "+h.name)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *EntryHandler[T, R]) Update(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req R
	if !bindJSON(c, &req) {
		return
	}
	item, err := req.toModel(userID)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Update(ctx, userID, id, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, h.name+" not found")
			return
		}
		respondError(c, err, "failed to update "+h.name)
		return
	}

	updated, err := h.store.Get(ctx, userID, id)
	if err != nil {
		respondError(c, err, "failed to load "+h.name)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EntryHandler[T, R]) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, h.name+" not found")
			return
		}
		respondError(c, err, "failed to delete "+h.name)
		return
	}
	c.Status(http.StatusNoContent)
}

type skillRequest struct {
	Name             string `json:"name" binding:"required,max=128"`
	ProficiencyLevel string `json:"proficiency_level" binding:"omitempty,oneof=beginner intermediate advanced expert"`
	Category         string `json:"category" binding:"max=128"`
}

func (r skillRequest) toModel(userID uuid.UUID) (database.Skill, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return database.Skill{}, errors.New("name is required")
	}
	level := r.ProficiencyLevel
	if level == "" {
		level = "intermediate"
	}
	return database.Skill{
		UserID:           userID,
		Name:             name,
		ProficiencyLevel: level,
		Category:         strings.TrimSpace(r.Category),
	}, nil
}

type educationRequest struct {
	Institution  string `json:"institution" binding:"max=255"`
	Degree       string `json:"degree" binding:"required,max=255"`
	FieldOfStudy string `json:"field_of_study" binding:"max=255"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Grade        string `json:"grade" binding:"max=64"`
}

func (r educationRequest) toModel(userID uuid.UUID) (database.Education, error) {
	degree := strings.TrimSpace(r.Degree)
	if degree == "" {
		return database.Education{}, errors.New("degree is required")
	}
	start, end, err := portfolio.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return database.Education{}, err
	}
	return database.Education{
		UserID:       userID,
		Institution:  strings.TrimSpace(r.Institution),
		Degree:       degree,
		FieldOfStudy: strings.TrimSpace(r.FieldOfStudy),
		StartDate:    start,
		EndDate:      end,
		Grade:        strings.TrimSpace(r.Grade),
	}, nil
}

type projectRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description" binding:"max=5000"`
	Technologies string `json:"technologies" binding:"max=1000"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	ProjectURL   string `json:"project_url" binding:"omitempty,url,max=512"`
	GithubURL    string `json:"github_url" binding:"omitempty,url,max=512"`
	IsFeatured   bool   `json:"is_featured"`
}

func (r projectRequest) toModel(userID uuid.UUID) (database.Project, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return database.Project{}, errors.New("title is required")
	}
	start, end, err := portfolio.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return database.Project{}, err
	}
	return database.Project{
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(r.Description),
		Technologies: portfolio.ParseTechnologies(r.Technologies),
		StartDate:    start,
		EndDate:      end,
		ProjectURL:   strings.TrimSpace(r.ProjectURL),
		GithubURL:    strings.TrimSpace(r.GithubURL),
		IsFeatured:   r.IsFeatured,
	}, nil
}

type achievementRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description" binding:"max=5000"`
	Issuer       string `json:"issuer" binding:"max=255"`
	DateAchieved string `json:"date_achieved"`
}

func (r achievementRequest) toModel(userID uuid.UUID) (database.Achievement, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return database.Achievement{}, errors.New("title is required")
	}
	date, err := portfolio.ParseDate(r.DateAchieved)
	if err != nil {
		return database.Achievement{}, err
	}
	return database.Achievement{
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(r.Description),
		Issuer:       strings.TrimSpace(r.Issuer),
		DateAchieved: date,
	}, nil
}
