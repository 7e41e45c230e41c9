// Package config handles configuration for the upload server, including
// defaults, environment (optionally from a dotenv file), JSON overlay and
// command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/common"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"

	// MaxPresignTTL is the longest validity SigV4 presigned URLs accept.
	MaxPresignTTL = 7 * 24 * time.Hour
)

// Config holds runtime settings for the upload server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for POST /api/upload.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - LogLevel: debug, info, warn or error.
//   - StorageDriver: "s3" (aws-sdk-go-v2, also R2) or "minio" (minio-go).
//   - S3AccessKeyID / S3SecretAccessKey: backend credentials.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3UsePathStyle: bucket settings.
//   - PresignTTL: validity of issued download URLs (24h by default).
//   - StorageTimeout: bound on one file's write+presign.
//   - MaxFileSize: per-file size limit in bytes.
//   - MaxFormMemory: multipart bytes kept in memory before spilling to disk.
//   - MaxRequestSize: cap on a whole upload request body.
//   - HealthCheckInterval: how often storage readiness is probed.
type Config struct {
	EndpointAddrHTTP    string
	EndpointAddrGRPC    string
	LogLevel            string
	StorageDriver       string
	S3AccessKeyID       string
	S3SecretAccessKey   string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	S3UsePathStyle      bool
	PresignTTL          time.Duration
	StorageTimeout      time.Duration
	MaxFileSize         int64
	MaxFormMemory       int64
	MaxRequestSize      int64
	HealthCheckInterval time.Duration
}

// LoadDefaults populates Config with development defaults. Credentials,
// bucket and endpoint stay empty: they must come from the environment, a
// config file or flags, otherwise Validate fails.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.LogLevel = "info"
	c.StorageDriver = DriverS3
	c.S3Region = "us-east-1"
	c.S3UsePathStyle = true
	c.PresignTTL = 24 * time.Hour
	c.StorageTimeout = 30 * time.Second
	c.MaxFileSize = 100 << 20
	c.MaxFormMemory = 32 << 20
	c.MaxRequestSize = 1 << 30
	c.HealthCheckInterval = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.S3AccessKeyID == "" {
		missing = append(missing, "access key id")
	}
	if c.S3SecretAccessKey == "" {
		missing = append(missing, "secret access key")
	}
	if c.S3Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.S3BaseEndpoint == "" {
		missing = append(missing, "endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrorMissingConfig, strings.Join(missing, ", "))
	}

	switch c.StorageDriver {
	case DriverS3, DriverMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.PresignTTL <= 0 || c.PresignTTL > MaxPresignTTL {
		return fmt.Errorf("presign ttl must be in (0, %s], got %s", MaxPresignTTL, c.PresignTTL)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("storage timeout must be positive, got %s", c.StorageTimeout)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.MaxRequestSize < c.MaxFileSize {
		return fmt.Errorf("max request size %d is below max file size %d", c.MaxRequestSize, c.MaxFileSize)
	}

	return nil
}
