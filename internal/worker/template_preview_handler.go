package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"

	"studentfolio/internal/repository"
	"studentfolio/internal/resume"
	"studentfolio/internal/storage"
	"studentfolio/internal/tasks"
)

const previewPresignTTL = 7 * 24 * time.Hour

// ObjectStorage 是缩略图上传所需的存储能力。
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// TemplatePreviewHandler 负责模板缩略图生成任务。
type TemplatePreviewHandler struct {
	templates repository.TemplateStore
	storage   ObjectStorage
	capturer  PageCapturer
	logger    *slog.Logger
	quality   int
}

func NewTemplatePreviewHandler(
	templates repository.TemplateStore,
	storageClient ObjectStorage,
	capturer PageCapturer,
	logger *slog.Logger,
	quality int,
) *TemplatePreviewHandler {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &TemplatePreviewHandler{
		templates: templates,
		storage:   storageClient,
		capturer:  capturer,
		logger:    logger,
		quality:   quality,
	}
}

func (h *TemplatePreviewHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger

	var payload tasks.TemplatePreviewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal template preview payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	log = log.With(
		slog.String("template_id", payload.TemplateID.String()),
		slog.String("correlation_id", payload.CorrelationID),
	)
	log.Info("Starting template preview generation task...")

	tpl, err := h.templates.Get(ctx, payload.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("template not found, skipping task")
			return nil
		}
		log.Error("query template failed", slog.Any("error", err))
		return err
	}

	html, err := resume.Render(tpl.TemplateKey, resume.SampleRecord())
	if err != nil {
		log.Error("render sample resume failed", slog.Any("error", err))
		return err
	}

	previewBytes, err := h.capturer.Capture(ctx, html, h.quality)
	if err != nil {
		log.Error("capture template screenshot failed", slog.Any("error", err))
		return err
	}

	objectName := storage.TemplatePreviewKey(tpl.TemplateKey)
	if _, err := h.storage.UploadFile(ctx, objectName, bytes.NewReader(previewBytes), int64(len(previewBytes)), "image/jpeg"); err != nil {
		log.Error("upload template preview failed", slog.Any("error", err))
		return err
	}

	url, err := h.storage.GeneratePresignedURL(ctx, objectName, previewPresignTTL)
	if err != nil {
		log.Error("generate template preview url failed", slog.Any("error", err))
		return err
	}

	if err := h.templates.SetPreviewURL(ctx, tpl.ID, url); err != nil {
		log.Error("update template preview url failed", slog.Any("error", err))
		return err
	}

	log.Info("Template preview generation completed.", slog.String("object", objectName))
	return nil
}
