package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"snapquizzer_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider archives uploaded artifacts (scanned quiz images).
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// NewStorageProvider picks the provider from configuration. "minio" talks
// to an object store; anything else falls back to the local filesystem.
func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	if cfg.Storage.Type == "minio" {
		return newMinioStorage(cfg)
	}
	return &localStorage{basePath: cfg.Storage.LocalPath}, nil
}

type localStorage struct {
	basePath string
}

func (s *localStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(s.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return path, nil
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg *config.Config) (*minioStorage, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Storage.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioStorage{client: client, bucket: cfg.Storage.MinioBucket}, nil
}

func (s *minioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}
