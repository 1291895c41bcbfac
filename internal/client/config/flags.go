package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/flagx"
)

// parseFlags reads
//
//	-a string   portfolio API base URL
//	-w int      request timeout, seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "portfolio API base URL")
	timeoutSeconds := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSeconds) * time.Second
}
