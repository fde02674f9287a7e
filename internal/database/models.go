package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studentfolio/internal/resume"
)

// Base 为用户数据表提供 UUID 主键与时间戳。
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 在插入前补齐主键。
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Profile 与用户一一对应，主键即认证服务签发的用户 ID。
type Profile struct {
	UserID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName        string            `gorm:"size:255" json:"full_name"`
	Bio             string            `gorm:"type:text" json:"bio"`
	Email           string            `gorm:"size:255" json:"email"`
	Phone           string            `gorm:"size:64" json:"phone"`
	Location        string            `gorm:"size:255" json:"location"`
	LinkedinURL     string            `gorm:"size:512" json:"linkedin_url"`
	GithubURL       string            `gorm:"size:512" json:"github_url"`
	PortfolioURL    string            `gorm:"size:512" json:"portfolio_url"`
	AvatarURL       string            `gorm:"size:512" json:"avatar_url"`
	IsPublic        bool              `gorm:"not null;default:false" json:"is_public"`
	PublicSlug      *string           `gorm:"size:128;uniqueIndex" json:"public_slug"`
	VisibleSections datatypes.JSONMap `json:"visible_sections"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Skill 的名称允许重复。
type Skill struct {
	Base
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name             string    `gorm:"size:128;not null" json:"name"`
	ProficiencyLevel string    `gorm:"size:32;not null;default:intermediate" json:"proficiency_level"`
	Category         string    `gorm:"size:128" json:"category"`
}

// Education 的 EndDate 为空表示至今。
type Education struct {
	Base
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Institution  string     `gorm:"size:255" json:"institution"`
	Degree       string     `gorm:"size:255;not null" json:"degree"`
	FieldOfStudy string     `gorm:"size:255" json:"field_of_study"`
	StartDate    *time.Time `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	Grade        string     `gorm:"size:64" json:"grade"`
}

// TableName 固定表名，避免复数化为 educations。
func (Education) TableName() string { return "education" }

// Project 的 Technologies 保留用户输入的顺序。
type Project struct {
	Base
	UserID       uuid.UUID                   `gorm:"type:uuid;index;not null" json:"user_id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	StartDate    *time.Time                  `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time                  `gorm:"type:date" json:"end_date"`
	ProjectURL   string                      `gorm:"size:512" json:"project_url"`
	GithubURL    string                      `gorm:"size:512" json:"github_url"`
	IsFeatured   bool                        `gorm:"not null;default:false" json:"is_featured"`
}

// Achievement 表示奖项或荣誉。
type Achievement struct {
	Base
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Issuer       string     `gorm:"size:255" json:"issuer"`
	DateAchieved *time.Time `gorm:"type:date" json:"date_achieved"`
}

// Certificate 可以没有附件；附件字段同时为空或同时存在。
type Certificate struct {
	Base
	UserID              uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	Type                string     `gorm:"size:32;not null;default:other" json:"type"`
	IssuingOrganization string     `gorm:"size:255" json:"issuing_organization"`
	IssueDate           *time.Time `gorm:"type:date" json:"issue_date"`
	FilePath            *string    `gorm:"size:512" json:"file_path"`
	FileName            *string    `gorm:"size:255" json:"file_name"`
	FileSize            *int64     `json:"file_size"`
	MimeType            *string    `gorm:"size:128" json:"mime_type"`
}

// HasFile 报告证书是否关联了存储对象。
func (c Certificate) HasFile() bool {
	return c.FilePath != nil && *c.FilePath != ""
}

// ActivityMetadata 是活动日志附带的结构化信息。
type ActivityMetadata struct {
	Language     string `json:"language,omitempty"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
	IP           string `json:"ip,omitempty"`
	NewDevice    bool   `json:"new_device,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ActivityLog 只追加，不修改也不删除。UserID 为空表示登录前事件。
type ActivityLog struct {
	ID                uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            *uuid.UUID                           `gorm:"type:uuid;index" json:"user_id"`
	Action            string                               `gorm:"size:64;index;not null" json:"action"`
	UserAgent         string                               `gorm:"size:512" json:"user_agent"`
	DeviceType        string                               `gorm:"size:32" json:"device_type"`
	Browser           string                               `gorm:"size:32" json:"browser"`
	OS                string                               `gorm:"column:os;size:32" json:"os"`
	DeviceFingerprint string                               `gorm:"size:32;index" json:"device_fingerprint"`
	IsSuspicious      bool                                 `gorm:"not null;default:false" json:"is_suspicious"`
	Metadata          datatypes.JSONType[ActivityMetadata] `json:"metadata"`
	CreatedAt         time.Time                            `gorm:"index" json:"created_at"`
}

// BeforeCreate 在插入前补齐主键。
func (a *ActivityLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// GeneratedResume 是生成简历时的数据快照，写入后不再修改。
type GeneratedResume struct {
	ID          uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                         `gorm:"type:uuid;index;not null" json:"user_id"`
	TemplateID  *uuid.UUID                        `gorm:"type:uuid" json:"template_id"`
	TemplateKey string                            `gorm:"size:64;not null" json:"template_key"`
	Content     datatypes.JSONType[resume.Record] `json:"content"`
	CreatedAt   time.Time                         `json:"created_at"`
}

// BeforeCreate 在插入前补齐主键。
func (g *GeneratedResume) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// ResumeTemplate 是全局模板目录，不属于任何用户。
type ResumeTemplate struct {
	Base
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	TemplateKey string `gorm:"size:64;uniqueIndex;not null" json:"template_key"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
	PreviewURL  string `gorm:"size:1024" json:"preview_url"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

// Models 返回需要迁移的全部模型。
func Models() []any {
	return []any{
		&Profile{},
		&Skill{},
		&Education{},
		&Project{},
		&Achievement{},
		&Certificate{},
		&ActivityLog{},
		&GeneratedResume{},
		&ResumeTemplate{},
	}
}
