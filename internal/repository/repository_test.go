package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studentfolio/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func TestOwnedStoreScopesByUser(t *testing.T) {
	ctx := context.Background()
	store := NewSkillStore(newTestDB(t))
	alice, bob := uuid.New(), uuid.New()

	skill := &database.Skill{UserID: alice, Name: "Go", ProficiencyLevel: "expert"}
	require.NoError(t, store.Create(ctx, skill))
	require.NotEqual(t, uuid.Nil, skill.ID)
	require.NoError(t, store.Create(ctx, &database.Skill{UserID: alice, Name: "Go"}))

	list, err := store.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "intermediate", list[1].ProficiencyLevel)

	_, err = store.Get(ctx, bob, skill.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Update(ctx, bob, skill.ID, &database.Skill{UserID: bob, Name: "Rust"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, bob, skill.ID), ErrNotFound)

	require.NoError(t, store.Update(ctx, alice, skill.ID, &database.Skill{UserID: alice, Name: "Go", ProficiencyLevel: "advanced", Category: ""}))
	got, err := store.Get(ctx, alice, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "advanced", got.ProficiencyLevel)

	n, err := store.Count(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, store.Delete(ctx, alice, skill.ID))
	n, err = store.Count(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestProjectStoreListsFeaturedFirst(t *testing.T) {
	ctx := context.Background()
	store := NewProjectStore(newTestDB(t))
	user := uuid.New()

	require.NoError(t, store.Create(ctx, &database.Project{UserID: user, Title: "plain", Technologies: []string{"Go", "SQL"}}))
	require.NoError(t, store.Create(ctx, &database.Project{UserID: user, Title: "featured", IsFeatured: true}))

	list, err := store.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "featured", list[0].Title)
	assert.Equal(t, []string{"Go", "SQL"}, []string(list[1].Technologies))
}

func TestProfileSettingsSlugConflict(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t))
	alice, bob := uuid.New(), uuid.New()

	_, err := store.Ensure(ctx, alice, "alice@example.com")
	require.NoError(t, err)
	_, err = store.Ensure(ctx, bob, "bob@example.com")
	require.NoError(t, err)

	again, err := store.Ensure(ctx, alice, "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", again.Email)

	require.NoError(t, store.UpdateSettings(ctx, alice, PortfolioSettings{
		IsPublic:        true,
		PublicSlug:      strPtr("alice"),
		VisibleSections: map[string]any{"certificates": true},
	}))

	err = store.UpdateSettings(ctx, bob, PortfolioSettings{IsPublic: true, PublicSlug: strPtr("alice")})
	assert.ErrorIs(t, err, ErrSlugTaken)

	found, err := store.FindPublicBySlug(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, found.UserID)
	assert.Equal(t, true, found.VisibleSections["certificates"])

	require.NoError(t, store.UpdateSettings(ctx, alice, PortfolioSettings{IsPublic: false, PublicSlug: strPtr("alice")}))
	_, err = store.FindPublicBySlug(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileUpdateKeepsSettings(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t))
	user := uuid.New()

	_, err := store.Ensure(ctx, user, "")
	require.NoError(t, err)
	require.NoError(t, store.UpdateSettings(ctx, user, PortfolioSettings{IsPublic: true, PublicSlug: strPtr("me")}))

	require.NoError(t, store.Update(ctx, &database.Profile{UserID: user, FullName: "Ada", Bio: "hi"}))
	got, err := store.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FullName)
	assert.True(t, got.IsPublic)
	require.NotNil(t, got.PublicSlug)
	assert.Equal(t, "me", *got.PublicSlug)

	assert.ErrorIs(t, store.Update(ctx, &database.Profile{UserID: uuid.New()}), ErrNotFound)
}

func TestActivityStoreRecent(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(newTestDB(t))
	user := uuid.New()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, &database.ActivityLog{
			UserID:    &user,
			Action:    fmt.Sprintf("action-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Create(ctx, &database.ActivityLog{Action: "anonymous"}))

	recent, err := store.Recent(ctx, user, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "action-4", recent[0].Action)
	assert.Equal(t, "action-2", recent[2].Action)
}

func TestTemplateStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewTemplateStore(newTestDB(t))

	tpl := &database.ResumeTemplate{Name: "Modern", TemplateKey: "modern", IsActive: true, SortOrder: 2}
	require.NoError(t, store.Upsert(ctx, tpl))
	id := tpl.ID
	require.NoError(t, store.SetPreviewURL(ctx, id, "https://cdn.example.com/modern.jpg"))

	legacy := &database.ResumeTemplate{Name: "Modern Creative", TemplateKey: "modern-creative", IsActive: false}
	require.NoError(t, store.Upsert(ctx, legacy))

	again := &database.ResumeTemplate{Name: "Modern v2", TemplateKey: "modern", IsActive: true, SortOrder: 2}
	require.NoError(t, store.Upsert(ctx, again))
	assert.Equal(t, id, again.ID)
	assert.Equal(t, "Modern v2", again.Name)
	assert.Equal(t, "https://cdn.example.com/modern.jpg", again.PreviewURL)

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "modern", active[0].TemplateKey)

	_, err = store.GetByKey(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEducationStoreListsUndatedLast(t *testing.T) {
	ctx := context.Background()
	store := NewEducationStore(newTestDB(t))
	user := uuid.New()
	older := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, &database.Education{UserID: user, Degree: "Bootcamp"}))
	require.NoError(t, store.Create(ctx, &database.Education{UserID: user, Degree: "A-Levels", StartDate: &older}))
	require.NoError(t, store.Create(ctx, &database.Education{UserID: user, Degree: "BSc", StartDate: &newer}))

	list, err := store.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"BSc", "A-Levels", "Bootcamp"}, []string{list[0].Degree, list[1].Degree, list[2].Degree})
}
