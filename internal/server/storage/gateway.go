// Package storage is the object store gateway: it wraps a single bucket and
// exposes write, presign and a readiness probe. Two backends are provided,
// S3Gateway (aws-sdk-go-v2; AWS S3, Cloudflare R2, LocalStack) and
// MinioGateway (minio-go).
//
// A gateway is built once per process from configuration and shared by all
// requests; implementations are safe for concurrent use.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/server/config"
)

// DefaultPresignTTL is the validity of issued download URLs unless configured.
const DefaultPresignTTL = 24 * time.Hour

// Access is the visibility requested for a presigned URL.
type Access string

const (
	AccessPublicRead Access = "public-read"
	AccessPrivate    Access = "private"
)

// Gateway is the contract the upload handler relies on.
type Gateway interface {
	// Write stores data under key, overwriting silently. A non-nil error is
	// always a *StorageError and means nothing was reported as stored.
	Write(ctx context.Context, key string, data []byte, contentType string) error

	// Presign returns a signed, time-limited GET URL for key. Existence of
	// the object is not checked.
	Presign(ctx context.Context, key string, ttl time.Duration, access Access) (string, error)

	// Ping checks that the bucket is reachable with the configured credentials.
	Ping(ctx context.Context) error
}

// New builds the gateway selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch cfg.StorageDriver {
	case config.DriverS3:
		return NewS3Gateway(ctx, cfg)
	case config.DriverMinio:
		return NewMinioGateway(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func validateWrite(bucket, key string, size, limit int64) error {
	if key == "" {
		return newStorageError(OpWrite, bucket, key, ErrInvalidKey)
	}
	if limit > 0 && size > limit {
		return newStorageError(OpWrite, bucket, key, fmt.Errorf("%w: %d > %d bytes", ErrObjectTooLarge, size, limit))
	}
	return nil
}

func validatePresign(bucket, key string, ttl time.Duration, access Access) error {
	if key == "" {
		return newStorageError(OpPresign, bucket, key, ErrInvalidKey)
	}
	if ttl <= 0 {
		return newStorageError(OpPresign, bucket, key, fmt.Errorf("%w: %s", ErrInvalidTTL, ttl))
	}
	switch access {
	case AccessPublicRead, AccessPrivate:
	default:
		return newStorageError(OpPresign, bucket, key, fmt.Errorf("%w: %q", ErrInvalidAccess, access))
	}
	return nil
}
