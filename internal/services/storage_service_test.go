package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/energy-eservice/internal/config"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n%%EOF\n")

// formFile builds a parsed multipart upload the way gin hands it over.
func formFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func newLocalStorage(t *testing.T, maxSize int64) *StorageService {
	service, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{
			LocalPath:    t.TempDir(),
			MaxFileSize:  maxSize,
			AllowedTypes: []string{".pdf", ".jpg", ".jpeg", ".png"},
		},
	})
	require.NoError(t, err)
	return service
}

func TestUploadStoresLocally(t *testing.T) {
	service := newLocalStorage(t, 1<<20)
	file, header := formFile(t, "site-plan.PDF", pdfBytes)

	result, err := service.Upload(context.Background(), "citizen-7", file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "documents/citizen-7/"))
	assert.True(t, strings.HasSuffix(result.Key, ".pdf"))
	assert.Equal(t, "application/pdf", result.MimeType)
	assert.Equal(t, int64(len(pdfBytes)), result.Size)

	stored, err := os.ReadFile(filepath.Join(service.config.Storage.LocalPath, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)
}

func TestUploadRejections(t *testing.T) {
	service := newLocalStorage(t, 16)

	file, header := formFile(t, "big.pdf", pdfBytes)
	_, err := service.Upload(context.Background(), "citizen-7", file, header)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	service = newLocalStorage(t, 1<<20)
	file, header = formFile(t, "tool.exe", []byte("MZ"))
	_, err = service.Upload(context.Background(), "citizen-7", file, header)
	assert.True(t, errors.Is(err, ErrFileType))

	file, header = formFile(t, "fake.png", pdfBytes)
	_, err = service.Upload(context.Background(), "citizen-7", file, header)
	assert.True(t, errors.Is(err, ErrFileType))
}

func TestUploadKeyCannotEscapeOwnerFolder(t *testing.T) {
	service := newLocalStorage(t, 1<<20)
	file, header := formFile(t, "plan.pdf", pdfBytes)

	result, err := service.Upload(context.Background(), "../../etc", file, header)
	require.NoError(t, err)
	assert.NotContains(t, result.Key, "..")
}

func TestDocumentURLOnlyForOwner(t *testing.T) {
	service := newLocalStorage(t, 1<<20)
	file, header := formFile(t, "plan.pdf", pdfBytes)
	result, err := service.Upload(context.Background(), "citizen-7", file, header)
	require.NoError(t, err)

	url, err := service.DocumentURL("citizen-7", result.Key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "/v1/citizen/documents/files/"+result.Key, url)
	assert.Equal(t, url, result.URL)

	_, err = service.DocumentURL("citizen-8", result.Key, time.Minute)
	assert.True(t, errors.Is(err, ErrNotOwner))

	_, err = service.DocumentURL("citizen-7", "documents/citizen-7/../citizen-8/x.pdf", time.Minute)
	assert.True(t, errors.Is(err, ErrNotOwner))
}

func TestLocalFileOnlyForOwner(t *testing.T) {
	service := newLocalStorage(t, 1<<20)
	file, header := formFile(t, "plan.pdf", pdfBytes)
	result, err := service.Upload(context.Background(), "citizen-7", file, header)
	require.NoError(t, err)

	path, err := service.LocalFile("citizen-7", result.Key)
	require.NoError(t, err)
	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)

	_, err = service.LocalFile("citizen-8", result.Key)
	assert.True(t, errors.Is(err, ErrNotOwner))

	_, err = service.LocalFile("citizen-7", "documents/citizen-7/../../secrets.txt")
	assert.True(t, errors.Is(err, ErrNotOwner))
}
