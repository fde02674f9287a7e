package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studentfolio/internal/database"
)

// ProfileStore 持久化用户资料与公开主页设置。
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*database.Profile, error)
	Ensure(ctx context.Context, userID uuid.UUID, email string) (*database.Profile, error)
	Update(ctx context.Context, profile *database.Profile) error
	UpdateSettings(ctx context.Context, userID uuid.UUID, settings PortfolioSettings) error
	FindPublicBySlug(ctx context.Context, slug string) (*database.Profile, error)
}

// PortfolioSettings 是公开主页设置的一次完整写入。
type PortfolioSettings struct {
	IsPublic        bool
	PublicSlug      *string
	VisibleSections map[string]any
}

type profileStore struct {
	db *gorm.DB
}

// NewProfileStore 创建基于 GORM 的 ProfileStore。
func NewProfileStore(db *gorm.DB) ProfileStore {
	return &profileStore{db: db}
}

func (s *profileStore) Get(ctx context.Context, userID uuid.UUID) (*database.Profile, error) {
	var profile database.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// Ensure 返回用户资料，首次访问时创建最小记录。
func (s *profileStore) Ensure(ctx context.Context, userID uuid.UUID, email string) (*database.Profile, error) {
	profile := database.Profile{UserID: userID, Email: email}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID)
}

// Update 写入可编辑的资料字段，不触碰公开设置。
func (s *profileStore) Update(ctx context.Context, profile *database.Profile) error {
	res := s.db.WithContext(ctx).
		Model(&database.Profile{}).
		Where("user_id = ?", profile.UserID).
		Select("full_name", "bio", "email", "phone", "location", "linkedin_url", "github_url", "portfolio_url", "avatar_url", "updated_at").
		Updates(profile)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSettings 写入公开设置；slug 唯一约束冲突返回 ErrSlugTaken。
func (s *profileStore) UpdateSettings(ctx context.Context, userID uuid.UUID, settings PortfolioSettings) error {
	res := s.db.WithContext(ctx).
		Model(&database.Profile{}).
		Where("user_id = ?", userID).
		Select("is_public", "public_slug", "visible_sections", "updated_at").
		Updates(&database.Profile{
			IsPublic:        settings.IsPublic,
			PublicSlug:      settings.PublicSlug,
			VisibleSections: datatypes.JSONMap(settings.VisibleSections),
		})
	if res.Error != nil {
		err := translate(res.Error)
		if errors.Is(err, ErrDuplicate) {
			return ErrSlugTaken
		}
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPublicBySlug 仅返回已公开的资料，否则 ErrNotFound。
func (s *profileStore) FindPublicBySlug(ctx context.Context, slug string) (*database.Profile, error) {
	var profile database.Profile
	err := s.db.WithContext(ctx).
		Where("public_slug = ? AND is_public = ?", slug, true).
		First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}
