package api

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/database"
	"studentfolio/internal/metrics"
	"studentfolio/internal/repository"
	"studentfolio/internal/resume"
)

// RecordLoader 加载用户的简历数据快照。
type RecordLoader interface {
	Record(ctx context.Context, userID uuid.UUID) (resume.Record, error)
}

// ResumeHandler 负责简历生成、打印视图与预览。
type ResumeHandler struct {
	records   RecordLoader
	generated repository.GeneratedResumeStore
	templates repository.TemplateStore
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(records RecordLoader, generated repository.GeneratedResumeStore, templates repository.TemplateStore) *ResumeHandler {
	return &ResumeHandler{records: records, generated: generated, templates: templates}
}

type downloadResumeRequest struct {
	TemplateKey string     `json:"template_key" binding:"max=64"`
	TemplateID  *uuid.UUID `json:"template_id"`
}

type templateListItem struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	TemplateKey string     `json:"template_key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PreviewURL  string     `json:"preview_url,omitempty"`
	Layout      string     `json:"layout"`
}

// POST /v1/resume/download
// 返回 HTML 附件并记录一次生成快照；快照写入失败不影响下载。
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req downloadResumeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	templateKey := strings.TrimSpace(req.TemplateKey)
	var templateID *uuid.UUID
	if req.TemplateID != nil {
		tpl, err := h.templates.Get(ctx, *req.TemplateID)
		switch {
		case err == nil:
			templateKey = tpl.TemplateKey
			templateID = &tpl.ID
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "template not found")
			return
		default:
			respondError(c, err, "failed to load template")
			return
		}
	}

	rec, err := h.records.Record(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load resume data")
		return
	}

	if templateKey != "" && !resume.IsKnown(templateKey) {
		log.Warn("unknown template key, using professional", slog.String("template_key", templateKey))
	}
	html, err := resume.Render(templateKey, rec)
	if err != nil {
		respondError(c, err, "failed to render resume")
		return
	}
	canonical := resume.Resolve(templateKey)
	metrics.ObserveRender(canonical.String(), "download")

	snapshot := &database.GeneratedResume{
		UserID:      userID,
		TemplateID:  templateID,
		TemplateKey: canonical.String(),
		Content:     datatypes.NewJSONType(rec),
	}
	if err := h.generated.Create(ctx, snapshot); err != nil {
		log.Warn("record generated resume failed", slog.Any("error", err))
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": resume.DownloadFilename(rec.Profile.FullName),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GET /v1/resume/print?template=
// 返回加载后自动打开打印对话框的文档。
func (h *ResumeHandler) PrintResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.records.Record(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load resume data")
		return
	}

	key := c.Query("template")
	html, err := resume.RenderPrintable(key, rec)
	if err != nil {
		respondError(c, err, "failed to render resume")
		return
	}
	metrics.ObserveRender(resume.Resolve(key).String(), "print")

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GET /v1/resume/preview?template=
// 返回与渲染结果一致的版式描述。
func (h *ResumeHandler) PreviewResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.records.Record(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load resume data")
		return
	}

	layout := resume.Preview(c.Query("template"), rec)
	metrics.ObserveRender(layout.Template.String(), "preview")
	c.JSON(http.StatusOK, layout)
}

// GET /v1/templates
// 目录未初始化时返回内置的四种版式。
func (h *ResumeHandler) ListTemplates(c *gin.Context) {
	rows, err := h.templates.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list templates")
		return
	}

	items := make([]templateListItem, 0, len(resume.Templates))
	if len(rows) == 0 {
		for _, t := range resume.Templates {
			items = append(items, templateListItem{
				TemplateKey: t.String(),
				Name:        t.DisplayName(),
				Description: t.Description(),
				Layout:      string(resume.Preview(t.String(), resume.Record{}).Class),
			})
		}
		c.JSON(http.StatusOK, items)
		return
	}

	for i := range rows {
		row := rows[i]
		items = append(items, templateListItem{
			ID:          &row.ID,
			TemplateKey: row.TemplateKey,
			Name:        row.Name,
			Description: row.Description,
			PreviewURL:  row.PreviewURL,
			Layout:      string(resume.Preview(row.TemplateKey, resume.Record{}).Class),
		})
	}
	c.JSON(http.StatusOK, items)
}
