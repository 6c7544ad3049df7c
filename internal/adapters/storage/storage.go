// Package storage archives generated report documents in S3-compatible
// object storage and hands out time-limited download links.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PresignedURLTTL is how long a report download link stays valid.
const PresignedURLTTL = 24 * time.Hour

var allowedContentTypes = map[string]bool{
	"text/html":       true,
	"application/pdf": true,
}

// Object is a document about to be archived.
type Object struct {
	Folder      string
	FileName    string
	ContentType string
	Body        []byte
	// Metadata is stored as x-amz-meta-* headers.
	Metadata map[string]string
}

type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService is the archive used by the report module.
type StorageService interface {
	// Put stores obj under Folder/<name>_<8 hex><ext> and returns the key.
	Put(ctx context.Context, bucket string, obj Object) (string, error)
	PresignGet(ctx context.Context, bucket, key string) (*PresignedURL, error)
	EnsureBucketExists(ctx context.Context, bucket string) error
}

type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}

// ObjectKey builds folder/<base>_<first 8 chars of id><ext> so two reports
// generated in the same second never overwrite each other.
func ObjectKey(folder, fileName string, id uuid.UUID) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return path.Join(folder, fmt.Sprintf("%s_%s%s", base, id.String()[:8], ext))
}

// IsAllowedContentType ignores parameters such as charset.
func IsAllowedContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

func checkObject(obj Object, maxBytes int64) error {
	if !IsAllowedContentType(obj.ContentType) {
		return fmt.Errorf("content type %q is not archived", obj.ContentType)
	}
	size := int64(len(obj.Body))
	if size == 0 {
		return fmt.Errorf("%s is empty", obj.FileName)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%s is %d bytes, above the %d byte limit", obj.FileName, size, maxBytes)
	}
	return nil
}
