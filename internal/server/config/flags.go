package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/flagx"
	"github.com/docker/go-units"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-l string   log level
//	-k string   storage driver: s3 or minio
//	-u string   access key id
//	-p string   secret access key
//	-b string   bucket name
//	-r string   region
//	-e string   base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t int      presigned URL validity, minutes
//	-w int      per-file storage timeout, seconds
//	-m string   max file size (e.g., "100MB")
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// -c/-env and flags owned by other packages do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-l", "-k", "-u", "-p", "-b", "-r", "-e", "-t", "-w", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve uploads on")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.StorageDriver, "k", config.StorageDriver, "storage driver (s3|minio)")
	fs.StringVar(&config.S3AccessKeyID, "u", config.S3AccessKeyID, "storage access key id")
	fs.StringVar(&config.S3SecretAccessKey, "p", config.S3SecretAccessKey, "storage secret access key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "storage bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "storage region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "storage base endpoint")

	presignTTL := fs.Int("t", int(config.PresignTTL.Minutes()), "presigned URL validity (in minutes)")
	storageTimeout := fs.Int("w", int(config.StorageTimeout.Seconds()), "per-file storage timeout (in seconds)")
	maxFileSize := fs.String("m", units.BytesSize(float64(config.MaxFileSize)), "max file size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// converted values are applied only when given, so sub-unit durations
	// coming from JSON survive the round trip through the defaults
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.PresignTTL = time.Duration(*presignTTL) * time.Minute
		case "w":
			config.StorageTimeout = time.Duration(*storageTimeout) * time.Second
		case "m":
			size, err := units.RAMInBytes(*maxFileSize)
			if err != nil {
				panic(err)
			}
			config.MaxFileSize = size
		}
	})
}
