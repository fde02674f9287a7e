//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studentfolio/internal/config"
	"studentfolio/internal/database"
	"studentfolio/internal/resume"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "studentfolio",
				"POSTGRES_USER":     "studentfolio",
				"POSTGRES_PASSWORD": "studentfolio",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.InitDatabase(config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		Name:     "studentfolio",
		User:     "studentfolio",
		Password: "studentfolio",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestPostgresSlugUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(startPostgres(t))
	alice, bob := uuid.New(), uuid.New()

	for _, id := range []uuid.UUID{alice, bob} {
		_, err := store.Ensure(ctx, id, "")
		require.NoError(t, err)
	}

	slug := "ada-lovelace"
	require.NoError(t, store.UpdateSettings(ctx, alice, PortfolioSettings{IsPublic: true, PublicSlug: &slug}))
	err := store.UpdateSettings(ctx, bob, PortfolioSettings{IsPublic: true, PublicSlug: &slug})
	assert.ErrorIs(t, err, ErrSlugTaken)

	// 未设置 slug 的多份资料可以共存。
	require.NoError(t, store.UpdateSettings(ctx, bob, PortfolioSettings{IsPublic: false}))
	_, err = store.Ensure(ctx, uuid.New(), "")
	require.NoError(t, err)
}

func TestPostgresGeneratedResumeSnapshot(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t)
	store := NewGeneratedResumeStore(db)
	user := uuid.New()

	rec := resume.Record{
		Profile:  resume.Profile{FullName: "Ada Lovelace"},
		Projects: []resume.Project{{Title: "Engine", Technologies: []string{"Go"}, IsFeatured: true}},
	}
	require.NoError(t, store.Create(ctx, &database.GeneratedResume{
		UserID:      user,
		TemplateKey: "modern",
		Content:     datatypes.NewJSONType(rec),
	}))

	var stored database.GeneratedResume
	require.NoError(t, db.Where("user_id = ?", user).First(&stored).Error)
	assert.Equal(t, rec, stored.Content.Data())
}

func TestPostgresProjectTechnologies(t *testing.T) {
	ctx := context.Background()
	store := NewProjectStore(startPostgres(t))
	user := uuid.New()

	require.NoError(t, store.Create(ctx, &database.Project{UserID: user, Title: "Notes", Technologies: []string{"Go", "React"}}))
	list, err := store.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Go", "React"}, []string(list[0].Technologies))
}

func TestPostgresEducationUndatedLast(t *testing.T) {
	ctx := context.Background()
	store := NewEducationStore(startPostgres(t))
	user := uuid.New()
	start := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, &database.Education{UserID: user, Degree: "Bootcamp"}))
	require.NoError(t, store.Create(ctx, &database.Education{UserID: user, Degree: "BSc", StartDate: &start}))

	list, err := store.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BSc", list[0].Degree)
	assert.Equal(t, "Bootcamp", list[1].Degree)
}
