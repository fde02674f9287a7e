package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gabriel-vasile/mimetype"
)

// MaxCertificateSize 是证书附件的大小上限（10MB）。
const MaxCertificateSize int64 = 10 << 20

var (
	// ErrFileTooLarge 表示文件超过大小上限。
	ErrFileTooLarge = errors.New("file exceeds the 10MB limit")
	// ErrUnsupportedFile 表示扩展名或内容类型不被接受。
	ErrUnsupportedFile = errors.New("unsupported file type, accepted: pdf, jpg, jpeg, png, doc, docx")
	// ErrInfected 表示病毒扫描未通过。
	ErrInfected = errors.New("malicious file detected")
)

// certificateTypes 按扩展名列出可接受的探测结果，探测结果的父类型也参与匹配。
var certificateTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// CertificateFile 是通过校验的附件信息。
type CertificateFile struct {
	Ext      string
	MimeType string
}

// ValidateCertificateFile 校验文件名、大小，并嗅探内容确认与扩展名一致。
// 只读取 head 的前 3KB，调用方需自行重新打开文件用于上传。
func ValidateCertificateFile(filename string, size int64, head io.Reader) (CertificateFile, error) {
	if size > MaxCertificateSize {
		return CertificateFile{}, ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	accepted, ok := certificateTypes[ext]
	if !ok {
		return CertificateFile{}, ErrUnsupportedFile
	}

	buf := make([]byte, 3072)
	n, err := io.ReadFull(head, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return CertificateFile{}, fmt.Errorf("read file header: %w", err)
	}
	detected := mimetype.Detect(buf[:n])

	for m := detected; m != nil; m = m.Parent() {
		for _, want := range accepted {
			if m.Is(want) {
				return CertificateFile{Ext: ext, MimeType: contentTypeFor(ext, detected.String())}, nil
			}
		}
	}
	return CertificateFile{}, fmt.Errorf("%w: detected %s", ErrUnsupportedFile, detected.String())
}

// contentTypeFor 对探测只能识别到容器格式的情况回填具体类型。
func contentTypeFor(ext, detected string) string {
	switch {
	case ext == ".docx" && detected == "application/zip":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ext == ".doc" && detected == "application/x-ole-storage":
		return "application/msword"
	}
	return detected
}

// Scanner 在上传前检查文件内容。
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// ClamdScanner 使用 clamd 扫描文件流。
type ClamdScanner struct {
	Addr string
}

// Scan 返回 ErrInfected 表示发现恶意内容。
func (s ClamdScanner) Scan(ctx context.Context, r io.Reader) error {
	client := clamd.NewClamd(s.Addr)

	abort := make(chan bool)
	defer close(abort)

	results, err := client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Status == clamd.RES_FOUND {
				return fmt.Errorf("%w: %s", ErrInfected, res.Description)
			}
			if res.Status != clamd.RES_OK {
				return fmt.Errorf("scan result %s: %s", res.Status, res.Description)
			}
		}
	}
}

// NopScanner 不做任何检查，用于未配置 clamd 的环境。
type NopScanner struct{}

func (NopScanner) Scan(context.Context, io.Reader) error { return nil }

// NewScanner 地址为空时返回 NopScanner。
func NewScanner(addr string) Scanner {
	if strings.TrimSpace(addr) == "" {
		return NopScanner{}
	}
	return ClamdScanner{Addr: addr}
}
