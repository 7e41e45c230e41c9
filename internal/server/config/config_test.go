package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearStorageEnv(t *testing.T) {
	t.Helper()
	for _, names := range [][]string{
		envAliases.accessKey, envAliases.secretKey, envAliases.bucket,
		envAliases.endpoint, envAliases.region, envAliases.driver, envAliases.pathStyle,
	} {
		for _, n := range names {
			// t.Setenv registers the restore; the variable is then removed so
			// godotenv treats it as absent
			t.Setenv(n, "")
			require.NoError(t, os.Unsetenv(n))
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, DriverS3, c.StorageDriver)
	assert.Empty(t, c.S3AccessKeyID)
	assert.Empty(t, c.S3SecretAccessKey)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Empty(t, c.S3BaseEndpoint)
	assert.True(t, c.S3UsePathStyle)
	assert.Equal(t, 24*time.Hour, c.PresignTTL)
	assert.Equal(t, 30*time.Second, c.StorageTimeout)
	assert.Equal(t, int64(100<<20), c.MaxFileSize)
	assert.Equal(t, int64(32<<20), c.MaxFormMemory)
	assert.Equal(t, int64(1<<30), c.MaxRequestSize)
	assert.Equal(t, 5*time.Second, c.HealthCheckInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	clearStorageEnv(t)

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, c.PresignTTL)
	assert.Empty(t, c.S3Bucket)
}

func TestLoadConfig_CredentialsOnlyFailsValidate(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	clearStorageEnv(t)
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")

	err := LoadConfig().Validate()

	require.ErrorIs(t, err, common.ErrorMissingConfig)
	assert.Contains(t, err.Error(), "bucket, endpoint")
}

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.S3AccessKeyID = "key"
	c.S3SecretAccessKey = "secret"
	c.S3Bucket = "uploads"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
		missing bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "minio driver ok", mutate: func(c *Config) { c.StorageDriver = DriverMinio }},
		{
			name:    "all credentials missing are listed together",
			mutate:  func(c *Config) { c.S3AccessKeyID = ""; c.S3SecretAccessKey = "" },
			wantErr: "access key id, secret access key",
			missing: true,
		},
		{name: "no bucket", mutate: func(c *Config) { c.S3Bucket = "" }, wantErr: "bucket", missing: true},
		{name: "no endpoint", mutate: func(c *Config) { c.S3BaseEndpoint = "" }, wantErr: "endpoint", missing: true},
		{name: "bad driver", mutate: func(c *Config) { c.StorageDriver = "gcs" }, wantErr: "unknown storage driver"},
		{name: "zero ttl", mutate: func(c *Config) { c.PresignTTL = 0 }, wantErr: "presign ttl"},
		{name: "ttl too long", mutate: func(c *Config) { c.PresignTTL = 8 * 24 * time.Hour }, wantErr: "presign ttl"},
		{name: "zero timeout", mutate: func(c *Config) { c.StorageTimeout = 0 }, wantErr: "storage timeout"},
		{name: "zero max size", mutate: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "max file size"},
		{name: "request cap below file cap", mutate: func(c *Config) { c.MaxRequestSize = c.MaxFileSize - 1 }, wantErr: "max request size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.missing, errors.Is(err, common.ErrorMissingConfig))
		})
	}
}
