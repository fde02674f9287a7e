package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studentfolio/internal/database"
)

// TemplateStore 管理全局简历模板目录。
type TemplateStore interface {
	ListActive(ctx context.Context) ([]database.ResumeTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*database.ResumeTemplate, error)
	GetByKey(ctx context.Context, key string) (*database.ResumeTemplate, error)
	Upsert(ctx context.Context, tpl *database.ResumeTemplate) error
	SetPreviewURL(ctx context.Context, id uuid.UUID, url string) error
}

type templateStore struct {
	db *gorm.DB
}

// NewTemplateStore 创建基于 GORM 的 TemplateStore。
func NewTemplateStore(db *gorm.DB) TemplateStore {
	return &templateStore{db: db}
}

func (s *templateStore) ListActive(ctx context.Context) ([]database.ResumeTemplate, error) {
	var items []database.ResumeTemplate
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("sort_order ASC, name ASC").Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *templateStore) Get(ctx context.Context, id uuid.UUID) (*database.ResumeTemplate, error) {
	var tpl database.ResumeTemplate
	if err := s.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

func (s *templateStore) GetByKey(ctx context.Context, key string) (*database.ResumeTemplate, error) {
	var tpl database.ResumeTemplate
	if err := s.db.WithContext(ctx).First(&tpl, "template_key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

// Upsert 以 template_key 为准插入或更新目录项，保留已有 ID 与预览图。
func (s *templateStore) Upsert(ctx context.Context, tpl *database.ResumeTemplate) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "is_active", "sort_order", "updated_at"}),
		}).
		Create(tpl).Error
	if err != nil {
		return translate(err)
	}
	stored, err := s.GetByKey(ctx, tpl.TemplateKey)
	if err != nil {
		return err
	}
	*tpl = *stored
	return nil
}

func (s *templateStore) SetPreviewURL(ctx context.Context, id uuid.UUID, url string) error {
	res := s.db.WithContext(ctx).Model(&database.ResumeTemplate{}).Where("id = ?", id).Update("preview_url", url)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
