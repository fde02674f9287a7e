package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studentfolio/internal/database"
)

// OwnedStore 是按 user_id 隔离的实体存取接口。
type OwnedStore[T any] interface {
	List(ctx context.Context, userID uuid.UUID) ([]T, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, userID, id uuid.UUID, item *T) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

// SkillStore 持久化技能。
type SkillStore interface{ OwnedStore[database.Skill] }

// EducationStore 持久化教育经历，按开始时间倒序返回。
type EducationStore interface{ OwnedStore[database.Education] }

// ProjectStore 持久化项目，精选项目排在前面。
type ProjectStore interface{ OwnedStore[database.Project] }

// AchievementStore 持久化成就。
type AchievementStore interface{ OwnedStore[database.Achievement] }

// CertificateStore 持久化证书元数据。
type CertificateStore interface{ OwnedStore[database.Certificate] }

type ownedStore[T any] struct {
	db    *gorm.DB
	order string
}

func NewSkillStore(db *gorm.DB) SkillStore {
	return &ownedStore[database.Skill]{db: db, order: "created_at ASC"}
}

func NewEducationStore(db *gorm.DB) EducationStore {
	return &ownedStore[database.Education]{db: db, order: "start_date IS NULL, start_date DESC, created_at DESC"}
}

func NewProjectStore(db *gorm.DB) ProjectStore {
	return &ownedStore[database.Project]{db: db, order: "is_featured DESC, created_at DESC"}
}

func NewAchievementStore(db *gorm.DB) AchievementStore {
	return &ownedStore[database.Achievement]{db: db, order: "date_achieved IS NULL, date_achieved DESC, created_at DESC"}
}

func NewCertificateStore(db *gorm.DB) CertificateStore {
	return &ownedStore[database.Certificate]{db: db, order: "created_at DESC"}
}

func (s *ownedStore[T]) List(ctx context.Context, userID uuid.UUID) ([]T, error) {
	var items []T
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order(s.order).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *ownedStore[T]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *ownedStore[T]) Create(ctx context.Context, item *T) error {
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

// Update 覆盖全部可写字段（包括零值），记录不属于 userID 时返回 ErrNotFound。
func (s *ownedStore[T]) Update(ctx context.Context, userID, id uuid.UUID, item *T) error {
	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND user_id = ?", id, userID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(item)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ownedStore[T]) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ownedStore[T]) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}
