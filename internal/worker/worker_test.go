package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studentfolio/internal/database"
	"studentfolio/internal/repository"
	"studentfolio/internal/storage"
	"studentfolio/internal/tasks"
)

type fakeStorage struct {
	uploaded map[string][]byte
	prefixes []string
	err      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{Key: objectName}, nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.prefixes = append(s.prefixes, prefix)
	return s.err
}

type fakeCapturer struct {
	html string
}

func (c *fakeCapturer) Capture(_ context.Context, html string, _ int) ([]byte, error) {
	c.html = html
	return []byte{0xff, 0xd8, 0xff}, nil
}

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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplatePreviewHandler(t *testing.T) {
	ctx := context.Background()
	templates := repository.NewTemplateStore(newTestDB(t))
	tpl := &database.ResumeTemplate{Name: "Creative", TemplateKey: "creative", IsActive: true}
	require.NoError(t, templates.Upsert(ctx, tpl))

	store := newFakeStorage()
	capturer := &fakeCapturer{}
	h := NewTemplatePreviewHandler(templates, store, capturer, discardLogger(), 0)

	task, err := tasks.NewTemplatePreviewTask(tpl.ID, "corr")
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(ctx, task))

	key := storage.TemplatePreviewKey("creative")
	assert.Contains(t, store.uploaded, key)
	assert.Contains(t, capturer.html, "resume-creative")
	assert.Contains(t, capturer.html, "Alex Morgan")

	got, err := templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.invalid/"+key, got.PreviewURL)
}

func TestTemplatePreviewHandlerMissingTemplate(t *testing.T) {
	h := NewTemplatePreviewHandler(repository.NewTemplateStore(newTestDB(t)), newFakeStorage(), &fakeCapturer{}, discardLogger(), 80)
	task, err := tasks.NewTemplatePreviewTask(uuid.New(), "")
	require.NoError(t, err)
	assert.NoError(t, h.ProcessTask(context.Background(), task))
}

func TestTemplatePreviewHandlerBadPayload(t *testing.T) {
	h := NewTemplatePreviewHandler(repository.NewTemplateStore(newTestDB(t)), newFakeStorage(), &fakeCapturer{}, discardLogger(), 80)
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeTemplatePreview, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCertificatePurgeHandler(t *testing.T) {
	store := newFakeStorage()
	h := NewCertificatePurgeHandler(store, discardLogger())
	user, cert := uuid.New(), uuid.New()

	task, err := tasks.NewCertificatePurgeTask(user, cert, "corr")
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, store.prefixes, 1)
	assert.True(t, strings.HasPrefix(store.prefixes[0], "certificates/"+user.String()+"/"))

	store.err = errors.New("minio down")
	assert.Error(t, h.ProcessTask(context.Background(), task))
}
