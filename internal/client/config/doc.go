// Package config loads runtime configuration for the s3drop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the upload server
//	-a string   host:port of the gRPC health endpoint
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds)
//	-n int      retries per request after the first attempt
//	-j int      concurrent file requests per batch
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "health_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "1m",
//	  "retry_max": 2,
//	  "concurrency": 4
//	}
//
// The client does not read environment variables.
package config
