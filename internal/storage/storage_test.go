package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	jpgHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
)

func TestValidateCertificateFileAccepts(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		mime string
	}{
		{"scan.PNG", pngHeader, "image/png"},
		{"degree.pdf", pdfHeader, "application/pdf"},
		{"photo.jpeg", jpgHeader, "image/jpeg"},
		{"photo.jpg", jpgHeader, "image/jpeg"},
	}
	for _, tc := range cases {
		got, err := ValidateCertificateFile(tc.name, int64(len(tc.data)), bytes.NewReader(tc.data))
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.mime, got.MimeType, tc.name)
		assert.Equal(t, strings.ToLower(tc.name[strings.LastIndex(tc.name, "."):]), got.Ext)
	}
}

func TestValidateCertificateFileRejects(t *testing.T) {
	_, err := ValidateCertificateFile("big.pdf", MaxCertificateSize+1, bytes.NewReader(pdfHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = ValidateCertificateFile("tool.exe", 10, bytes.NewReader([]byte("MZ")))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ValidateCertificateFile("noext", 10, bytes.NewReader(pdfHeader))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	// 扩展名与内容不一致
	_, err = ValidateCertificateFile("fake.pdf", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ValidateCertificateFile("notes.docx", 11, bytes.NewReader([]byte("plain text!")))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestValidateCertificateFileExactLimit(t *testing.T) {
	_, err := ValidateCertificateFile("ok.pdf", MaxCertificateSize, bytes.NewReader(pdfHeader))
	assert.NoError(t, err)
}

func TestCertificateKeys(t *testing.T) {
	user, cert := uuid.New(), uuid.New()
	key := CertificateObjectKey(user, cert, ".PDF")

	assert.True(t, strings.HasPrefix(key, CertificatePrefix(user, cert)))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.True(t, OwnsCertificateKey(user, key))
	assert.False(t, OwnsCertificateKey(uuid.New(), key))
	assert.False(t, OwnsCertificateKey(user, CertificatePrefix(user, cert)+"../../x.pdf"))
	assert.Equal(t, "thumbnails/templates/modern/preview.jpg", TemplatePreviewKey("modern"))
}

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, IsNoSuchKey(nil))
	assert.True(t, IsNoSuchKey(errors.New("The specified key does not exist.")))
	assert.False(t, IsNoSuchKey(errors.New("connection refused")))
}

func TestNewScanner(t *testing.T) {
	assert.IsType(t, NopScanner{}, NewScanner(" "))
	assert.IsType(t, ClamdScanner{}, NewScanner("tcp://clamd:3310"))
}
