package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentfolio/internal/database"
	"studentfolio/internal/repository"
	"studentfolio/internal/resume"
)

var (
	// ErrSlugRequired 表示公开主页时 slug 为空。
	ErrSlugRequired = errors.New("public slug is required when the portfolio is public")
	// ErrInvalidSlug 表示 slug 含有非法字符。
	ErrInvalidSlug = errors.New("public slug may only contain lowercase letters, digits and hyphens")
	// ErrSlugTaken 与 repository.ErrSlugTaken 相同。
	ErrSlugTaken = repository.ErrSlugTaken
	// ErrNotFound 与 repository.ErrNotFound 相同。
	ErrNotFound = repository.ErrNotFound
)

// Stores 聚合服务依赖的存储接口。
type Stores struct {
	Profiles     repository.ProfileStore
	Skills       repository.SkillStore
	Education    repository.EducationStore
	Projects     repository.ProjectStore
	Achievements repository.AchievementStore
	Certificates repository.CertificateStore
}

// Service 负责公开主页设置、完成度与数据快照。
type Service struct {
	stores Stores
}

// NewService 创建 Service。
func NewService(stores Stores) *Service {
	return &Service{stores: stores}
}

// Settings 是公开主页设置。
type Settings struct {
	IsPublic        bool       `json:"is_public"`
	PublicSlug      string     `json:"public_slug"`
	VisibleSections SectionMap `json:"visible_sections"`
}

// SettingsInput 是一次设置更新。VisibleSections 允许只包含部分 key。
// Email 仅在资料尚不存在、需要创建时使用。
type SettingsInput struct {
	IsPublic        bool           `json:"is_public"`
	PublicSlug      string         `json:"public_slug"`
	VisibleSections map[string]any `json:"visible_sections"`
	Email           string         `json:"-"`
}

// Settings 读取当前设置，可见性已按默认值补齐。
func (s *Service) Settings(ctx context.Context, userID uuid.UUID) (Settings, error) {
	profile, err := s.stores.Profiles.Get(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	return settingsOf(profile), nil
}

// UpdateSettings 校验并写入设置。公开但 slug 为空时在任何写入（包括创建资料）之前返回 ErrSlugRequired。
func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, in SettingsInput) (Settings, error) {
	slug := strings.TrimSpace(in.PublicSlug)
	if in.IsPublic && slug == "" {
		return Settings{}, ErrSlugRequired
	}

	var slugPtr *string
	if slug != "" {
		slug = NormalizeSlug(slug)
		if !ValidSlug(slug) {
			return Settings{}, ErrInvalidSlug
		}
		slugPtr = &slug
	}

	if _, err := s.stores.Profiles.Ensure(ctx, userID, in.Email); err != nil {
		return Settings{}, err
	}

	sections := ResolveVisibleSections(in.VisibleSections)
	err := s.stores.Profiles.UpdateSettings(ctx, userID, repository.PortfolioSettings{
		IsPublic:        in.IsPublic,
		PublicSlug:      slugPtr,
		VisibleSections: sections.ToMap(),
	})
	if err != nil {
		return Settings{}, err
	}

	return Settings{IsPublic: in.IsPublic, PublicSlug: slug, VisibleSections: sections}, nil
}

// ReadinessReport 是完成度及其明细。
type ReadinessReport struct {
	Score  int    `json:"score"`
	Counts Counts `json:"counts"`
}

// Readiness 统计用户数据并计算完成度。
func (s *Service) Readiness(ctx context.Context, userID uuid.UUID) (ReadinessReport, error) {
	profile, err := s.stores.Profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return ReadinessReport{}, err
	}

	var counts Counts
	if profile != nil {
		counts.ProfileComplete = ProfileComplete(profile.FullName, profile.Bio)
	}

	type counter struct {
		dst   *int
		count func(context.Context, uuid.UUID) (int64, error)
		name  string
	}
	for _, c := range []counter{
		{&counts.Skills, s.stores.Skills.Count, "skills"},
		{&counts.Education, s.stores.Education.Count, "education"},
		{&counts.Projects, s.stores.Projects.Count, "projects"},
		{&counts.Achievements, s.stores.Achievements.Count, "achievements"},
		{&counts.Certificates, s.stores.Certificates.Count, "certificates"},
	} {
		n, err := c.count(ctx, userID)
		if err != nil {
			return ReadinessReport{}, fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dst = int(n)
	}

	return ReadinessReport{Score: ComputeReadiness(counts), Counts: counts}, nil
}

// Record 加载用户的完整数据并转换为简历快照。
func (s *Service) Record(ctx context.Context, userID uuid.UUID) (resume.Record, error) {
	profile, err := s.stores.Profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return resume.Record{}, fmt.Errorf("load profile: %w", err)
	}
	skills, err := s.stores.Skills.List(ctx, userID)
	if err != nil {
		return resume.Record{}, fmt.Errorf("load skills: %w", err)
	}
	education, err := s.stores.Education.List(ctx, userID)
	if err != nil {
		return resume.Record{}, fmt.Errorf("load education: %w", err)
	}
	projects, err := s.stores.Projects.List(ctx, userID)
	if err != nil {
		return resume.Record{}, fmt.Errorf("load projects: %w", err)
	}
	achievements, err := s.stores.Achievements.List(ctx, userID)
	if err != nil {
		return resume.Record{}, fmt.Errorf("load achievements: %w", err)
	}
	return BuildRecord(profile, skills, education, projects, achievements), nil
}

// PublicPage 是公开主页的只读视图，只包含可见且非空的区块。
type PublicPage struct {
	Slug         string              `json:"slug"`
	Profile      PublicProfile       `json:"profile"`
	Sections     []string            `json:"sections"`
	Skills       []resume.Skill      `json:"skills,omitempty"`
	Education    []resume.Education  `json:"education,omitempty"`
	Projects     []resume.Project    `json:"projects,omitempty"`
	Achievements []resume.Achievement `json:"achievements,omitempty"`
	Certificates []PublicCertificate `json:"certificates,omitempty"`
}

// PublicProfile 是公开主页展示的资料字段。
type PublicProfile struct {
	FullName     string `json:"full_name"`
	Bio          string `json:"bio,omitempty"`
	Location     string `json:"location,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	LinkedinURL  string `json:"linkedin_url,omitempty"`
	GithubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
}

// PublicCertificate 不包含存储路径。
type PublicCertificate struct {
	Name                string `json:"name"`
	Type                string `json:"type"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
	IssueDate           string `json:"issue_date,omitempty"`
}

// PublicPage 按 slug 加载公开资料；不存在或未公开时返回 ErrNotFound。
func (s *Service) PublicPage(ctx context.Context, slug string) (*PublicPage, error) {
	slug = NormalizeSlug(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrNotFound
	}
	profile, err := s.stores.Profiles.FindPublicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	rec, err := s.Record(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	visible := ResolveVisibleSections(profile.VisibleSections)

	page := &PublicPage{
		Slug: slug,
		Profile: PublicProfile{
			FullName:     profile.FullName,
			Location:     profile.Location,
			AvatarURL:    profile.AvatarURL,
			LinkedinURL:  profile.LinkedinURL,
			GithubURL:    profile.GithubURL,
			PortfolioURL: profile.PortfolioURL,
		},
		Sections: []string{},
	}

	if visible.About && resume.IncludesSection(resume.SectionSummary, rec) {
		page.Profile.Bio = strings.TrimSpace(rec.Profile.Bio)
		page.Sections = append(page.Sections, "about")
	}
	if visible.Skills && resume.IncludesSection(resume.SectionSkills, rec) {
		page.Skills = rec.Skills
		page.Sections = append(page.Sections, "skills")
	}
	if visible.Education && resume.IncludesSection(resume.SectionEducation, rec) {
		page.Education = rec.Education
		page.Sections = append(page.Sections, "education")
	}
	if visible.Projects && resume.IncludesSection(resume.SectionProjects, rec) {
		page.Projects = resume.SortProjects(rec.Projects)
		page.Sections = append(page.Sections, "projects")
	}
	if visible.Achievements && resume.IncludesSection(resume.SectionAchievements, rec) {
		page.Achievements = rec.Achievements
		page.Sections = append(page.Sections, "achievements")
	}
	if visible.Certificates {
		certs, err := s.stores.Certificates.List(ctx, profile.UserID)
		if err != nil {
			return nil, fmt.Errorf("load certificates: %w", err)
		}
		for _, c := range certs {
			page.Certificates = append(page.Certificates, PublicCertificate{
				Name:                c.Name,
				Type:                c.Type,
				IssuingOrganization: c.IssuingOrganization,
				IssueDate:           FormatDate(c.IssueDate),
			})
		}
		if len(page.Certificates) > 0 {
			page.Sections = append(page.Sections, "certificates")
		}
	}

	return page, nil
}

func settingsOf(p *database.Profile) Settings {
	out := Settings{IsPublic: p.IsPublic, VisibleSections: ResolveVisibleSections(p.VisibleSections)}
	if p.PublicSlug != nil {
		out.PublicSlug = *p.PublicSlug
	}
	return out
}

// BuildRecord 把数据库实体转换为简历快照。profile 可以为 nil。
func BuildRecord(
	profile *database.Profile,
	skills []database.Skill,
	education []database.Education,
	projects []database.Project,
	achievements []database.Achievement,
) resume.Record {
	var rec resume.Record
	if profile != nil {
		rec.Profile = resume.Profile{
			FullName:     profile.FullName,
			Bio:          profile.Bio,
			Email:        profile.Email,
			Phone:        profile.Phone,
			Location:     profile.Location,
			LinkedinURL:  profile.LinkedinURL,
			GithubURL:    profile.GithubURL,
			PortfolioURL: profile.PortfolioURL,
			AvatarURL:    profile.AvatarURL,
		}
	}
	for _, s := range skills {
		rec.Skills = append(rec.Skills, resume.Skill{Name: s.Name, ProficiencyLevel: s.ProficiencyLevel, Category: s.Category})
	}
	for _, e := range education {
		rec.Education = append(rec.Education, resume.Education{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    FormatDate(e.StartDate),
			EndDate:      FormatDate(e.EndDate),
			Grade:        e.Grade,
		})
	}
	for _, p := range projects {
		rec.Projects = append(rec.Projects, resume.Project{
			Title:        p.Title,
			Description:  p.Description,
			Technologies: append([]string(nil), p.Technologies...),
			StartDate:    FormatDate(p.StartDate),
			EndDate:      FormatDate(p.EndDate),
			ProjectURL:   p.ProjectURL,
			GithubURL:    p.GithubURL,
			IsFeatured:   p.IsFeatured,
		})
	}
	for _, a := range achievements {
		rec.Achievements = append(rec.Achievements, resume.Achievement{
			Title:        a.Title,
			Description:  a.Description,
			Issuer:       a.Issuer,
			DateAchieved: FormatDate(a.DateAchieved),
		})
	}
	return rec
}

// FormatDate 以 "Jan 2006" 形式输出日期，nil 返回空串。
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("Jan 2006")
}
