package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"studentfolio/internal/storage"
	"studentfolio/internal/tasks"
)

// PrefixDeleter 删除某个前缀下的全部对象。
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// CertificatePurgeHandler 清理已删除证书遗留的文件对象。
type CertificatePurgeHandler struct {
	storage PrefixDeleter
	logger  *slog.Logger
}

func NewCertificatePurgeHandler(storageClient PrefixDeleter, logger *slog.Logger) *CertificatePurgeHandler {
	return &CertificatePurgeHandler{storage: storageClient, logger: logger}
}

func (h *CertificatePurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.CertificatePurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal certificate purge payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	prefix := storage.CertificatePrefix(payload.UserID, payload.CertificateID)
	log := h.logger.With(
		slog.String("prefix", prefix),
		slog.String("correlation_id", payload.CorrelationID),
	)

	if err := h.storage.DeletePrefix(ctx, prefix); err != nil {
		log.Warn("purge certificate objects failed, will retry", slog.Any("error", err))
		return err
	}
	log.Info("certificate objects purged")
	return nil
}
