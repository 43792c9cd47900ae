package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carepulse/intake-platform/pkg/logging"
)

// ErrEmptyDocument is returned when an upload carries no bytes.
var ErrEmptyDocument = errors.New("documents: document is empty")

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config describes where documents land and how their view URLs are shaped.
type Config struct {
	Bucket          string
	StorageEndpoint string
	ProjectID       string
}

// Store writes identification documents to S3 and derives stable view URLs.
type Store struct {
	cfg      Config
	s3Client S3API
	logger   *logging.Logger
}

// NewStore creates a document Store.
func NewStore(s3Client S3API, cfg Config, logger *logging.Logger) *Store {
	if s3Client == nil {
		panic("documents: s3 client cannot be nil")
	}
	if cfg.Bucket == "" {
		panic("documents: bucket cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{cfg: cfg, s3Client: s3Client, logger: logger}
}

// Put stores a document and returns its generated object id.
func (s *Store) Put(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	objectID := uuid.New().String()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectID),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"filename": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("documents: s3 put %s: %w", objectID, err)
	}

	s.logger.Info("document stored",
		"object_id", objectID,
		"filename", filename,
		"size_bytes", len(data),
	)
	return objectID, nil
}

// ViewURL derives the public view URL for a stored object. The URL is a pure
// function of the object id and store configuration, no round trip involved.
func (s *Store) ViewURL(objectID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		s.cfg.StorageEndpoint, s.cfg.Bucket, objectID, s.cfg.ProjectID)
}
