// Package config holds the settings of the interactive portfolio client.
package config

import "time"

// Config holds runtime settings for the client.
//
//   - ServerURL: base URL of the portfolio API, without the /api/v1 prefix.
//   - RequestTimeout: upper bound on one API call; analysis runs are the slowest.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 60 * time.Second
}

// LoadConfig applies defaults, then the JSON file given by -c/-config, then
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
