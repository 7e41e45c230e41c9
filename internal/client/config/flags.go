package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   upload server base URL
//	-a string   gRPC health endpoint host:port
//	-i int      online check interval in seconds
//	-t int      request timeout in seconds
//	-n int      retry count
//	-j int      cap on concurrent file requests, 0 for none
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-a", "-i", "-t", "-n", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "upload server base URL")
	fs.StringVar(&cfg.HealthAddr, "a", cfg.HealthAddr, "address and port of the health endpoint")
	fs.IntVar(&cfg.RetryMax, "n", cfg.RetryMax, "retries per request")
	fs.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "cap on concurrent file requests (0 = none)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
}
