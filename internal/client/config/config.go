package config

import "time"

// Config holds runtime settings for the s3drop CLI.
//
// Fields:
//   - ServerURL: base URL of the upload server; requests go to ServerURL + /api/upload.
//   - HealthAddr: host:port of the server's gRPC health endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: bound on one file's upload request, retries included.
//   - RetryMax: extra attempts on connection errors and 5xx responses.
//   - Concurrency: optional cap on files of a batch in flight at once; 0
//     sends every file immediately.
type Config struct {
	ServerURL           string
	HealthAddr          string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	RetryMax            int
	Concurrency         int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = time.Minute
	c.RetryMax = 2
	c.Concurrency = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
