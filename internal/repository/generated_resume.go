package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentfolio/internal/database"
)

// GeneratedResumeStore 记录每次生成简历时的数据快照。
type GeneratedResumeStore interface {
	Create(ctx context.Context, record *database.GeneratedResume) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type generatedResumeStore struct {
	db *gorm.DB
}

// NewGeneratedResumeStore 创建基于 GORM 的 GeneratedResumeStore。
func NewGeneratedResumeStore(db *gorm.DB) GeneratedResumeStore {
	return &generatedResumeStore{db: db}
}

func (s *generatedResumeStore) Create(ctx context.Context, record *database.GeneratedResume) error {
	return translate(s.db.WithContext(ctx).Create(record).Error)
}

func (s *generatedResumeStore) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&database.GeneratedResume{}).Where("user_id = ?", userID).Count(&n).Error
	return n, translate(err)
}
