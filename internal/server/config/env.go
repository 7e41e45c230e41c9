package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/s3drop/internal/flagx"
	"github.com/joho/godotenv"
)

// envAliases lists, per setting, the variables consulted in order. The R2_*
// names keep deployments written for Cloudflare R2 working unchanged.
var envAliases = struct {
	accessKey, secretKey, bucket, endpoint, region, driver, pathStyle []string
}{
	accessKey: []string{"S3_ACCESS_KEY_ID", "R2_ACCESS_KEY_ID"},
	secretKey: []string{"S3_SECRET_ACCESS_KEY", "R2_SECRET_ACCESS_KEY"},
	bucket:    []string{"S3_BUCKET", "R2_BUCKET"},
	endpoint:  []string{"S3_ENDPOINT", "R2_ENDPOINT"},
	region:    []string{"S3_REGION"},
	driver:    []string{"STORAGE_DRIVER"},
	pathStyle: []string{"S3_USE_PATH_STYLE"},
}

// parseEnv loads the dotenv file selected with -env (default ".env") into the
// process environment and copies storage settings from it. Variables already
// present in the environment win over the file. A missing default file is
// ignored; an explicitly named file that cannot be loaded panics, mirroring
// the JSON loader.
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlags()

	if err := godotenv.Load(envFile); err != nil {
		if !(envFile == ".env" && errors.Is(err, fs.ErrNotExist)) {
			panic(err)
		}
	}

	setFromEnv(&config.S3AccessKeyID, envAliases.accessKey)
	setFromEnv(&config.S3SecretAccessKey, envAliases.secretKey)
	setFromEnv(&config.S3Bucket, envAliases.bucket)
	setFromEnv(&config.S3BaseEndpoint, envAliases.endpoint)
	setFromEnv(&config.S3Region, envAliases.region)
	setFromEnv(&config.StorageDriver, envAliases.driver)

	var pathStyle string
	setFromEnv(&pathStyle, envAliases.pathStyle)
	if pathStyle != "" {
		if v, err := strconv.ParseBool(pathStyle); err == nil {
			config.S3UsePathStyle = v
		}
	}
}

func setFromEnv(dst *string, names []string) {
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
			return
		}
	}
}
