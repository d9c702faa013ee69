package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/crudapp/crudapp/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const keyPrefix = "images"

// MinIOStorage mirrors uploaded images into a bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		// already exists is fine
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// ObjectKey is where an upload named name is stored in the bucket.
func ObjectKey(name string) string {
	return path.Join(keyPrefix, name)
}

// UploadFile stores the image under images/<name>.
func (s *MinIOStorage) UploadFile(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, ObjectKey(name), reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// RemoveFile deletes images/<name>. Removing a missing object is not an error.
func (s *MinIOStorage) RemoveFile(ctx context.Context, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, ObjectKey(name), minio.RemoveObjectOptions{})
}
