package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/s3drop/internal/server/config"
)

type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// MinioGateway stores objects through minio-go.
type MinioGateway struct {
	bucket        string
	maxObjectSize int64
	client        minioAPI
}

// NewMinioGateway connects to cfg.S3BaseEndpoint; an https scheme enables TLS.
// Region is passed through so presigning needs no bucket-location lookup.
func NewMinioGateway(cfg *config.Config) (*MinioGateway, error) {
	u, err := url.Parse(cfg.S3BaseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q has no host", cfg.S3BaseEndpoint)
	}

	lookup := minio.BucketLookupAuto
	if cfg.S3UsePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:        miniocreds.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure:       u.Scheme == "https",
		Region:       cfg.S3Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinioGateway{bucket: cfg.S3Bucket, maxObjectSize: cfg.MaxFileSize, client: client}, nil
}

func (g *MinioGateway) Write(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validateWrite(g.bucket, key, int64(len(data)), g.maxObjectSize); err != nil {
		return err
	}

	_, err := g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return newStorageError(OpWrite, g.bucket, key, err)
	}
	return nil
}

// Presign signs a GET for key; see S3Gateway.Presign about access.
func (g *MinioGateway) Presign(ctx context.Context, key string, ttl time.Duration, access Access) (string, error) {
	if err := validatePresign(g.bucket, key, ttl, access); err != nil {
		return "", err
	}

	u, err := g.client.PresignedGetObject(ctx, g.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", newStorageError(OpPresign, g.bucket, key, err)
	}
	return u.String(), nil
}

func (g *MinioGateway) Ping(ctx context.Context) error {
	ok, err := g.client.BucketExists(ctx, g.bucket)
	if err != nil {
		return newStorageError(OpPing, g.bucket, "", err)
	}
	if !ok {
		return newStorageError(OpPing, g.bucket, "", ErrBucketNotFound)
	}
	return nil
}
