package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeTemplatePreview  = "template:preview"
	TypeCertificatePurge = "certificate:purge"
)

// TemplatePreviewPayload 描述模板缩略图生成所需的最小信息。
type TemplatePreviewPayload struct {
	TemplateID    uuid.UUID `json:"template_id"`
	CorrelationID string    `json:"correlation_id"`
}

// NewTemplatePreviewTask 构造一个模板缩略图生成任务。
func NewTemplatePreviewTask(templateID uuid.UUID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TemplatePreviewPayload{
		TemplateID:    templateID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTemplatePreview, payload, asynq.MaxRetry(3)), nil
}

// CertificatePurgePayload 指向需要删除的证书对象前缀。
type CertificatePurgePayload struct {
	UserID        uuid.UUID `json:"user_id"`
	CertificateID uuid.UUID `json:"certificate_id"`
	CorrelationID string    `json:"correlation_id"`
}

// NewCertificatePurgeTask 构造证书文件清理任务，删除请求中同步删除失败时使用。
func NewCertificatePurgeTask(userID, certificateID uuid.UUID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CertificatePurgePayload{
		UserID:        userID,
		CertificateID: certificateID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCertificatePurge, payload, asynq.MaxRetry(10)), nil
}
