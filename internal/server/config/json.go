package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/portfoliorisk/internal/flagx"
	"github.com/dmitrijs2005/portfoliorisk/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both "30s"-style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AnalysisServiceURL          string         `json:"analysis_service_url"`
	AnalysisTimeout             timex.Duration `json:"analysis_timeout"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ArchiveTimeout              timex.Duration `json:"archive_timeout"`
}

// parseJson overlays values from the file named by -c/-config. Keys absent
// from the file leave the current value untouched. An unreadable or invalid
// file panics, since the server cannot start with a half-applied config.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AnalysisServiceURL, c.AnalysisServiceURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.AnalysisTimeout.Duration > 0 {
		config.AnalysisTimeout = c.AnalysisTimeout.Duration
	}
	if c.ArchiveTimeout.Duration > 0 {
		config.ArchiveTimeout = c.ArchiveTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
