package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
	now         func() time.Time
}

func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, errors.New("minio endpoint is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOService{client: client, maxFileSize: cfg.GetMinIOMaxFileSize(), now: time.Now}, nil
}

func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *MinIOService) Put(ctx context.Context, bucket string, obj Object) (string, error) {
	if err := checkObject(obj, s.maxFileSize); err != nil {
		return "", err
	}

	key := ObjectKey(obj.Folder, obj.FileName, uuid.New())
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(obj.Body), int64(len(obj.Body)), minio.PutObjectOptions{
		ContentType:        obj.ContentType,
		ContentDisposition: mime.FormatMediaType("attachment", map[string]string{"filename": obj.FileName}),
		UserMetadata:       obj.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

func (s *MinIOService) PresignGet(ctx context.Context, bucket, key string) (*PresignedURL, error) {
	expiresAt := s.now().Add(PresignedURLTTL)
	u, err := s.client.PresignedGetObject(ctx, bucket, key, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &PresignedURL{URL: u.String(), FileKey: key, ExpiresAt: expiresAt}, nil
}

var _ StorageService = (*MinIOService)(nil)
