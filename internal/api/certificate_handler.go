package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/database"
	"studentfolio/internal/errcode"
	"studentfolio/internal/metrics"
	"studentfolio/internal/portfolio"
	"studentfolio/internal/repository"
	"studentfolio/internal/storage"
	"studentfolio/internal/tasks"
)

const (
	certificateLinkTTL = 10 * time.Minute
	multipartMemory    = 4 << 20
)

var certificateTypes = map[string]bool{
	"degree":        true,
	"sslc":          true,
	"hsc":           true,
	"internship":    true,
	"certification": true,
	"other":         true,
}

// CertificateStorage 是证书附件所需的对象存储能力。
type CertificateStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GenerateDownloadURL(ctx context.Context, objectKey, filename string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// TaskEnqueuer 投递后台任务。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CertificateHandler 负责证书及其附件。
type CertificateHandler struct {
	store   repository.CertificateStore
	storage CertificateStorage
	scanner storage.Scanner
	tasks   TaskEnqueuer
}

// NewCertificateHandler 返回 CertificateHandler 实例。tasks 可以为 nil，此时删除失败只记录日志。
func NewCertificateHandler(store repository.CertificateStore, storageClient CertificateStorage, scanner storage.Scanner, taskClient TaskEnqueuer) *CertificateHandler {
	if scanner == nil {
		scanner = storage.NopScanner{}
	}
	return &CertificateHandler{store: store, storage: storageClient, scanner: scanner, tasks: taskClient}
}

// GET /v1/certificates
func (h *CertificateHandler) ListCertificates(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	items, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list certificates")
		return
	}
	if items == nil {
		items = []database.Certificate{}
	}
	c.JSON(http.StatusOK, items)
}

// POST /v1/certificates (multipart)
// 附件可选；有附件时先校验类型与大小、扫描病毒，再上传，最后写库。
func (h *CertificateHandler) CreateCertificate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	// 额外的 1MB 留给表单字段与 multipart 边界。
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxCertificateSize+1<<20)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.ObserveCertificateUpload("too_large")
			respondError(c, storage.ErrFileTooLarge, "")
			return
		}
		BadRequest(c, "invalid multipart form")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		BadRequest(c, "name is required")
		return
	}
	if len(name) > 255 {
		BadRequest(c, "name must be at most 255 characters")
		return
	}
	certType := strings.ToLower(strings.TrimSpace(c.DefaultPostForm("type", "other")))
	if !certificateTypes[certType] {
		BadRequest(c, "type must be one of: degree, sslc, hsc, internship, certification, other")
		return
	}
	issueDate, err := portfolio.ParseDate(c.PostForm("issue_date"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	cert := database.Certificate{
		Base:                database.Base{ID: uuid.New()},
		UserID:              userID,
		Name:                name,
		Type:                certType,
		IssuingOrganization: strings.TrimSpace(c.PostForm("issuing_organization")),
		IssueDate:           issueDate,
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	file, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		BadRequest(c, "invalid file")
		return
	default:
		if !h.attachFile(c, log, file, &cert) {
			return
		}
	}

	if err := h.store.Create(ctx, &cert); err != nil {
		if cert.HasFile() {
			if delErr := h.storage.DeleteObject(context.WithoutCancel(ctx), *cert.FilePath); delErr != nil {
				log.Warn("cleanup uploaded certificate failed", slog.Any("error", delErr))
			}
		}
		respondError(c, err, "failed to create certificate")
		return
	}

	if cert.HasFile() {
		metrics.ObserveCertificateUpload("stored")
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *CertificateHandler) attachFile(c *gin.Context, log *slog.Logger, file *multipart.FileHeader, cert *database.Certificate) bool {
	ctx := c.Request.Context()

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return false
	}
	defer fileReader.Close()

	info, err := storage.ValidateCertificateFile(file.Filename, file.Size, fileReader)
	if err != nil {
		metrics.ObserveCertificateUpload("rejected")
		respondError(c, err, "")
		return false
	}

	if _, err := fileReader.Seek(0, io.SeekStart); err != nil {
		Internal(c, "failed to read file")
		return false
	}
	if err := h.scanner.Scan(ctx, fileReader); err != nil {
		if errors.Is(err, storage.ErrInfected) {
			metrics.ObserveCertificateUpload("infected")
			Error(c, http.StatusBadRequest, errcode.UnsupportedFile, "malicious file detected")
			return false
		}
		log.Error("scan file", slog.Any("error", err))
		Internal(c, "failed to scan file")
		return false
	}

	if _, err := fileReader.Seek(0, io.SeekStart); err != nil {
		Internal(c, "failed to read file")
		return false
	}
	objectKey := storage.CertificateObjectKey(cert.UserID, cert.ID, info.Ext)
	if _, err := h.storage.UploadFile(ctx, objectKey, fileReader, file.Size, info.MimeType); err != nil {
		log.Error("upload file", slog.Any("error", err))
		metrics.ObserveCertificateUpload("storage_error")
		Error(c, http.StatusInternalServerError, errcode.StorageError, "failed to upload file")
		return false
	}

	fileName := filepath.Base(strings.ReplaceAll(file.Filename, "\\", "/"))
	size := file.Size
	mimeType := info.MimeType
	cert.FilePath = &objectKey
	cert.FileName = &fileName
	cert.FileSize = &size
	cert.MimeType = &mimeType
	return true
}

// DELETE /v1/certificates/:id
// 删除记录后同步删除附件；失败时投递清理任务重试。
func (h *CertificateHandler) DeleteCertificate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cert, err := h.store.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "certificate not found")
			return
		}
		respondError(c, err, "failed to load certificate")
		return
	}
	if err := h.store.Delete(ctx, userID, id); err != nil {
		respondError(c, err, "failed to delete certificate")
		return
	}

	if cert.HasFile() {
		h.removeFile(c, cert)
	}
	c.Status(http.StatusNoContent)
}

func (h *CertificateHandler) removeFile(c *gin.Context, cert *database.Certificate) {
	ctx := context.WithoutCancel(c.Request.Context())
	log := middleware.LoggerFromContext(c).With(slog.String("certificate_id", cert.ID.String()))

	err := h.storage.DeleteObject(ctx, *cert.FilePath)
	if err == nil {
		return
	}
	log.Warn("delete certificate object failed, scheduling purge", slog.Any("error", err))
	if h.tasks == nil {
		return
	}
	task, err := tasks.NewCertificatePurgeTask(cert.UserID, cert.ID, middleware.GetCorrelationID(c))
	if err != nil {
		log.Error("build purge task failed", slog.Any("error", err))
		return
	}
	if _, err := h.tasks.EnqueueContext(ctx, task); err != nil {
		log.Error("enqueue purge task failed", slog.Any("error", err))
	}
}

// GET /v1/certificates/:id/link
// 返回 10 分钟有效的附件下载链接。
func (h *CertificateHandler) GetCertificateLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cert, err := h.store.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "certificate not found")
			return
		}
		respondError(c, err, "failed to load certificate")
		return
	}
	if !cert.HasFile() {
		NotFound(c, "certificate has no file")
		return
	}
	if !storage.OwnsCertificateKey(userID, *cert.FilePath) {
		Forbidden(c, "access denied")
		return
	}

	fileName := ""
	if cert.FileName != nil {
		fileName = *cert.FileName
	}
	signedURL, err := h.storage.GenerateDownloadURL(ctx, *cert.FilePath, fileName, certificateLinkTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url", slog.Any("error", err))
		Error(c, http.StatusInternalServerError, errcode.StorageError, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL, "expires_in": int(certificateLinkTTL.Seconds())})
}
