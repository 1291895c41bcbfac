package config

import (
	"fmt"
	"os"
	"time"
)

const envPrefix = "PORTFOLIO_"

// parseEnv overlays PORTFOLIO_* environment variables. Durations use Go
// syntax ("24h", "45s"); a malformed duration panics.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, "ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "TOKEN_TTL")
	envString(&config.AnalysisServiceURL, "ANALYSIS_URL")
	envDuration(&config.AnalysisTimeout, "ANALYSIS_TIMEOUT")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.S3RootUser, "S3_USER")
	envString(&config.S3RootPassword, "S3_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	envDuration(&config.ArchiveTimeout, "ARCHIVE_TIMEOUT")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}
