package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studentfolio/internal/activity"
)

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 字段名与前端解析保持一致。
type Message struct {
	Type    string          `json:"type"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Device  activity.Device `json:"device"`
	At      string          `json:"at"`
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher 把安全提示发布到用户专属频道。
type Publisher struct {
	client redisPublisher
}

// NewPublisher 创建 Publisher。
func NewPublisher(client redisPublisher) *Publisher {
	return &Publisher{client: client}
}

// Channel 返回用户的通知频道名。
func Channel(userID uuid.UUID) string {
	return "user_notify:" + userID.String()
}

// Notify 实现 activity.Notifier。
func (p *Publisher) Notify(ctx context.Context, userID uuid.UUID, notice activity.Notice) error {
	payload, err := json.Marshal(Message{
		Type:    notice.Type,
		Code:    notice.Code,
		Message: notice.Message,
		Device:  notice.Device,
		At:      notice.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}
