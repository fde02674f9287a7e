package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentfolio/internal/database"
)

// ActivityStore 只追加活动日志，并按时间倒序读取最近窗口。
type ActivityStore interface {
	Create(ctx context.Context, entry *database.ActivityLog) error
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]database.ActivityLog, error)
}

type activityStore struct {
	db *gorm.DB
}

// NewActivityStore 创建基于 GORM 的 ActivityStore。
func NewActivityStore(db *gorm.DB) ActivityStore {
	return &activityStore{db: db}
}

func (s *activityStore) Create(ctx context.Context, entry *database.ActivityLog) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *activityStore) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]database.ActivityLog, error) {
	var entries []database.ActivityLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
