// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/config"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the maximum allowed size")
	ErrFileType       = errors.New("file type is not allowed")
	ErrRemoteDocument = errors.New("document is kept in object storage")
)

// localDocumentRoute serves locally stored documents to their owner.
const localDocumentRoute = "/v1/citizen/documents/files/"

// sniffed maps an extension to the content type its bytes must carry.
var sniffed = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var ownerSegment = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// StorageService keeps request attachments on S3, or below a local
// directory when no AWS credentials are configured.
type StorageService struct {
	s3Client s3iface.S3API
	config   *config.Config
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	s := &StorageService{config: config, now: time.Now}
	if config.AWS.AccessKeyID == "" {
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

// Upload stores one citizen document under documents/<owner>/.
func (s *StorageService) Upload(ctx context.Context, ownerID string, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	maxSize := s.config.Storage.MaxFileSize
	if maxSize > 0 && header.Size > maxSize {
		return nil, fmt.Errorf("%d bytes: %w", header.Size, ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.allowed(ext) {
		return nil, fmt.Errorf("%q: %w", ext, ErrFileType)
	}

	// one byte over the limit is enough to refuse a lying header
	reader := io.Reader(file)
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrFileTooLarge)
	}

	contentType := http.DetectContentType(data)
	if want, ok := sniffed[ext]; ok && !strings.HasPrefix(contentType, want) {
		return nil, fmt.Errorf("content %s does not match %s: %w", contentType, ext, ErrFileType)
	}

	key := s.generateKey(ownerID, ext)
	if s.s3Client != nil {
		return s.uploadToS3(ctx, data, key, contentType)
	}
	return s.uploadToLocal(data, key, contentType)
}

func (s *StorageService) allowed(ext string) bool {
	for _, t := range s.config.Storage.AllowedTypes {
		if strings.EqualFold(t, ext) {
			return true
		}
	}
	return false
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.config.Storage.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	logrus.WithField("key", key).Debug("Document stored locally")
	return &UploadResult{
		URL:      localDocumentRoute + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// DocumentURL hands a citizen a link to one of their own documents.
func (s *StorageService) DocumentURL(ownerID, key string, expiration time.Duration) (string, error) {
	if !ownsKey(ownerID, key) {
		return "", ErrNotOwner
	}
	return s.PresignedURL(key, expiration)
}

// LocalFile resolves an owned document to its path below the local
// storage directory.
func (s *StorageService) LocalFile(ownerID, key string) (string, error) {
	if !ownsKey(ownerID, key) {
		return "", ErrNotOwner
	}
	if s.s3Client != nil {
		return "", ErrRemoteDocument
	}
	return filepath.Join(s.config.Storage.LocalPath, filepath.FromSlash(key)), nil
}

func ownsKey(ownerID, key string) bool {
	prefix := "documents/" + ownerSegment.Replace(ownerID) + "/"
	return strings.HasPrefix(key, prefix) && !strings.Contains(key, "..") && !strings.Contains(key, "\\")
}

// PresignedURL gives temporary read access to an S3 document.
func (s *StorageService) PresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return localDocumentRoute + key, nil
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) generateKey(ownerID, ext string) string {
	id := uuid.New()
	date := s.now().Format("20060102")
	return fmt.Sprintf("documents/%s/%s_%s%s", ownerSegment.Replace(ownerID), date, id.String()[:8], ext)
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
