package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/s3drop/internal/server/config"
)

// test seams
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type bucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Gateway stores objects through the S3 API. Bodies above the uploader's
// part size go out as multipart uploads.
type S3Gateway struct {
	bucket        string
	maxObjectSize int64
	uploader      objectUploader
	presigner     objectPresigner
	buckets       bucketHeader
}

// NewS3Gateway builds the S3 client once from static credentials and the
// configured endpoint.
func NewS3Gateway(ctx context.Context, cfg *config.Config) (*S3Gateway, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Gateway{
		bucket:        cfg.S3Bucket,
		maxObjectSize: cfg.MaxFileSize,
		uploader:      manager.NewUploader(client),
		presigner:     s3.NewPresignClient(client),
		buckets:       client,
	}, nil
}

func (g *S3Gateway) Write(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validateWrite(g.bucket, key, int64(len(data)), g.maxObjectSize); err != nil {
		return err
	}

	_, err := g.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return newStorageError(OpWrite, g.bucket, key, err)
	}

	return nil
}

// Presign signs a GET for key. The S3 API carries visibility on the object,
// not on the signed request, so access is validated but not encoded.
func (g *S3Gateway) Presign(ctx context.Context, key string, ttl time.Duration, access Access) (string, error) {
	if err := validatePresign(g.bucket, key, ttl, access); err != nil {
		return "", err
	}

	req, err := g.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", newStorageError(OpPresign, g.bucket, key, err)
	}

	return req.URL, nil
}

func (g *S3Gateway) Ping(ctx context.Context) error {
	_, err := g.buckets.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(g.bucket)})
	if err != nil {
		return newStorageError(OpPing, g.bucket, "", err)
	}
	return nil
}
