package portfolio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfolio/internal/database"
	"studentfolio/internal/repository"
)

func TestResolveVisibleSectionsDefaults(t *testing.T) {
	want := SectionMap{About: true, Skills: true, Education: true, Achievements: true, Projects: true, Certificates: false}
	assert.Equal(t, want, ResolveVisibleSections(map[string]any{}))
	assert.Equal(t, want, ResolveVisibleSections(nil))
}

func TestResolveVisibleSectionsOverrides(t *testing.T) {
	got := ResolveVisibleSections(map[string]any{"certificates": true, "skills": false, "unknown": false})
	assert.True(t, got.Certificates)
	assert.False(t, got.Skills)
	assert.True(t, got.About)
	assert.True(t, got.Education)
	assert.True(t, got.Achievements)
	assert.True(t, got.Projects)
}

func TestResolveVisibleSectionsTruthiness(t *testing.T) {
	got := ResolveVisibleSections(map[string]any{
		"about":        "",
		"skills":       "yes",
		"education":    float64(0),
		"projects":     float64(2),
		"achievements": nil,
		"certificates": []any{},
	})
	assert.Equal(t, SectionMap{About: false, Skills: true, Education: false, Projects: true, Achievements: false, Certificates: true}, got)
}

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "my-cool-portfolio-", NormalizeSlug("My Cool Portfolio!"))
	assert.Equal(t, "ada-2024", NormalizeSlug("ada-2024"))
	assert.Equal(t, "caf-", NormalizeSlug("Café"))
	assert.True(t, ValidSlug("my-cool-portfolio-"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Has Space"))
}

func TestGenerateSlug(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		slug, err := GenerateSlug()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(slug, "portfolio-"))
		require.Len(t, slug, len("portfolio-")+6)
		require.True(t, ValidSlug(slug))
		seen[slug] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestComputeReadiness(t *testing.T) {
	assert.Equal(t, 100, ComputeReadiness(Counts{ProfileComplete: true, Skills: 5, Education: 2, Projects: 3, Achievements: 4}))
	assert.Equal(t, 0, ComputeReadiness(Counts{}))
	assert.Equal(t, 35, ComputeReadiness(Counts{ProfileComplete: true, Skills: 2}))
	assert.Equal(t, 100, ComputeReadiness(Counts{ProfileComplete: true, Skills: 50, Education: 9, Projects: 12}))
	// 1/3*25 = 8.33
	assert.Equal(t, 8, ComputeReadiness(Counts{Projects: 1}))
	// 2/3*25 = 16.67
	assert.Equal(t, 17, ComputeReadiness(Counts{Projects: 2}))
	assert.Equal(t, 0, ComputeReadiness(Counts{Skills: -3, Certificates: 10, Achievements: 10}))
}

type fakeProfiles struct {
	profiles      map[uuid.UUID]*database.Profile
	settingsCalls int
	ensureCalls   int
	settingsErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[uuid.UUID]*database.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, userID uuid.UUID) (*database.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Ensure(ctx context.Context, userID uuid.UUID, email string) (*database.Profile, error) {
	f.ensureCalls++
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &database.Profile{UserID: userID, Email: email}
	}
	return f.Get(ctx, userID)
}

func (f *fakeProfiles) Update(_ context.Context, p *database.Profile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeProfiles) UpdateSettings(_ context.Context, userID uuid.UUID, s repository.PortfolioSettings) error {
	f.settingsCalls++
	if f.settingsErr != nil {
		return f.settingsErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsPublic = s.IsPublic
	p.PublicSlug = s.PublicSlug
	p.VisibleSections = s.VisibleSections
	return nil
}

func (f *fakeProfiles) FindPublicBySlug(_ context.Context, slug string) (*database.Profile, error) {
	for _, p := range f.profiles {
		if p.IsPublic && p.PublicSlug != nil && *p.PublicSlug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeOwned[T any] struct {
	items map[uuid.UUID][]T
}

func newFakeOwned[T any]() *fakeOwned[T] { return &fakeOwned[T]{items: map[uuid.UUID][]T{}} }

func (f *fakeOwned[T]) List(_ context.Context, userID uuid.UUID) ([]T, error) {
	return f.items[userID], nil
}
func (f *fakeOwned[T]) Get(context.Context, uuid.UUID, uuid.UUID) (*T, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeOwned[T]) Create(context.Context, *T) error { return nil }
func (f *fakeOwned[T]) Update(context.Context, uuid.UUID, uuid.UUID, *T) error { return nil }
func (f *fakeOwned[T]) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeOwned[T]) Count(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.items[userID])), nil
}

type fixture struct {
	svc          *Service
	profiles     *fakeProfiles
	skills       *fakeOwned[database.Skill]
	education    *fakeOwned[database.Education]
	projects     *fakeOwned[database.Project]
	achievements *fakeOwned[database.Achievement]
	certificates *fakeOwned[database.Certificate]
}

func newFixture() *fixture {
	f := &fixture{
		profiles:     newFakeProfiles(),
		skills:       newFakeOwned[database.Skill](),
		education:    newFakeOwned[database.Education](),
		projects:     newFakeOwned[database.Project](),
		achievements: newFakeOwned[database.Achievement](),
		certificates: newFakeOwned[database.Certificate](),
	}
	f.svc = NewService(Stores{
		Profiles:     f.profiles,
		Skills:       f.skills,
		Education:    f.education,
		Projects:     f.projects,
		Achievements: f.achievements,
		Certificates: f.certificates,
	})
	return f
}

func TestUpdateSettingsRejectsBlankSlugBeforeWrite(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	_, _ = f.profiles.Ensure(context.Background(), user, "")

	for _, slug := range []string{"", "   ", "\t"} {
		_, err := f.svc.UpdateSettings(context.Background(), user, SettingsInput{IsPublic: true, PublicSlug: slug})
		assert.ErrorIs(t, err, ErrSlugRequired)
	}
	assert.Zero(t, f.profiles.settingsCalls)
}

func TestUpdateSettingsCreatesProfileOnlyAfterValidation(t *testing.T) {
	f := newFixture()
	user := uuid.New()

	_, err := f.svc.UpdateSettings(context.Background(), user, SettingsInput{IsPublic: true, PublicSlug: "  ", Email: "a@example.com"})
	require.ErrorIs(t, err, ErrSlugRequired)
	assert.Zero(t, f.profiles.ensureCalls)
	assert.Empty(t, f.profiles.profiles)

	_, err = f.svc.UpdateSettings(context.Background(), user, SettingsInput{IsPublic: true, PublicSlug: "ada", Email: "a@example.com"})
	require.NoError(t, err)
	require.Contains(t, f.profiles.profiles, user)
	assert.Equal(t, "a@example.com", f.profiles.profiles[user].Email)
}

func TestUpdateSettingsNormalizesAndStoresDefaults(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	_, _ = f.profiles.Ensure(context.Background(), user, "")

	got, err := f.svc.UpdateSettings(context.Background(), user, SettingsInput{
		IsPublic:        true,
		PublicSlug:      " Ada Lovelace ",
		VisibleSections: map[string]any{"certificates": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "ada-lovelace", got.PublicSlug)
	assert.True(t, got.VisibleSections.Certificates)

	stored := f.profiles.profiles[user]
	require.NotNil(t, stored.PublicSlug)
	assert.Equal(t, "ada-lovelace", *stored.PublicSlug)
	assert.Len(t, stored.VisibleSections, 6)

	settings, err := f.svc.Settings(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, got, settings)
}

func TestUpdateSettingsPrivateWithoutSlug(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	_, _ = f.profiles.Ensure(context.Background(), user, "")

	_, err := f.svc.UpdateSettings(context.Background(), user, SettingsInput{IsPublic: false})
	require.NoError(t, err)
	assert.Nil(t, f.profiles.profiles[user].PublicSlug)
}

func TestUpdateSettingsSlugTaken(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	_, _ = f.profiles.Ensure(context.Background(), user, "")
	f.profiles.settingsErr = repository.ErrSlugTaken

	_, err := f.svc.UpdateSettings(context.Background(), user, SettingsInput{IsPublic: true, PublicSlug: "taken"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestReadiness(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	f.profiles.profiles[user] = &database.Profile{UserID: user, FullName: "Ada", Bio: "Student"}
	f.skills.items[user] = []database.Skill{{Name: "Go"}, {Name: "SQL"}}
	f.certificates.items[user] = []database.Certificate{{Name: "AWS"}}

	report, err := f.svc.Readiness(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 35, report.Score)
	assert.Equal(t, 1, report.Counts.Certificates)
	assert.True(t, report.Counts.ProfileComplete)
}

func TestPublicPage(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	slug := "ada"
	issued := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	f.profiles.profiles[user] = &database.Profile{
		UserID:          user,
		FullName:        "Ada",
		Bio:             "Student",
		Email:           "ada@example.com",
		IsPublic:        true,
		PublicSlug:      &slug,
		VisibleSections: map[string]any{"skills": false, "certificates": true},
	}
	f.skills.items[user] = []database.Skill{{Name: "Go"}}
	f.projects.items[user] = []database.Project{{Title: "a"}, {Title: "b", IsFeatured: true}}
	f.certificates.items[user] = []database.Certificate{{Name: "AWS", Type: "certification", IssueDate: &issued}}

	page, err := f.svc.PublicPage(context.Background(), "ADA")
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "projects", "certificates"}, page.Sections)
	assert.Empty(t, page.Skills)
	assert.Equal(t, "Student", page.Profile.Bio)
	require.Len(t, page.Projects, 2)
	assert.Equal(t, "b", page.Projects[0].Title)
	require.Len(t, page.Certificates, 1)
	assert.Equal(t, "Mar 2024", page.Certificates[0].IssueDate)

	_, err = f.svc.PublicPage(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.PublicPage(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)

	f.profiles.profiles[user].IsPublic = false
	_, err = f.svc.PublicPage(context.Background(), "ada")
	assert.ErrorIs(t, err, ErrNotFound)
}
