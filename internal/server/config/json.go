package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/s3drop/internal/flagx"
	"github.com/dmitrijs2005/s3drop/internal/timex"
	"github.com/docker/go-units"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations accept "24h" or integer nanoseconds (timex.Duration); sizes
// accept human strings such as "100MB" (docker/go-units, binary multiples).
//
// Only keys present in the file override earlier sources.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc"`
	LogLevel            string         `json:"log_level"`
	StorageDriver       string         `json:"storage_driver"`
	S3AccessKeyID       string         `json:"s3_access_key_id"`
	S3SecretAccessKey   string         `json:"s3_secret_access_key"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3UsePathStyle      *bool          `json:"s3_use_path_style"`
	PresignTTL          timex.Duration `json:"presign_ttl"`
	StorageTimeout      timex.Duration `json:"storage_timeout"`
	MaxFileSize         string         `json:"max_file_size"`
	MaxFormMemory       string         `json:"max_form_memory"`
	MaxRequestSize      string         `json:"max_request_size"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
}

// parseJson loads the file named by -c / -config into config. Without the
// flag nothing happens. Unreadable files, invalid JSON and unparseable sizes
// panic: a half-applied config file is worse than not starting.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err = json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.StorageDriver, c.StorageDriver)
	overlay(&config.S3AccessKeyID, c.S3AccessKeyID)
	overlay(&config.S3SecretAccessKey, c.S3SecretAccessKey)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	if c.PresignTTL.Duration != 0 {
		config.PresignTTL = c.PresignTTL.Duration
	}
	if c.StorageTimeout.Duration != 0 {
		config.StorageTimeout = c.StorageTimeout.Duration
	}
	if c.HealthCheckInterval.Duration != 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.MaxFileSize != "" {
		config.MaxFileSize = mustParseSize(c.MaxFileSize)
	}
	if c.MaxFormMemory != "" {
		config.MaxFormMemory = mustParseSize(c.MaxFormMemory)
	}
	if c.MaxRequestSize != "" {
		config.MaxRequestSize = mustParseSize(c.MaxRequestSize)
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mustParseSize(s string) int64 {
	n, err := units.RAMInBytes(s)
	if err != nil {
		panic(err)
	}
	return n
}
