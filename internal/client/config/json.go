package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/s3drop/internal/flagx"
	"github.com/dmitrijs2005/s3drop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an explicit 0 from an absent key.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	HealthAddr          string         `json:"health_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	RetryMax            *int           `json:"retry_max"`
	Concurrency         *int           `json:"concurrency"`
}

// parseJson overlays cfg with the file named by -c / -config. Keys absent
// from the file keep their earlier values. Read and unmarshal errors panic.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthAddr != "" {
		cfg.HealthAddr = jc.HealthAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryMax != nil {
		cfg.RetryMax = *jc.RetryMax
	}
	if jc.Concurrency != nil {
		cfg.Concurrency = *jc.Concurrency
	}
}
