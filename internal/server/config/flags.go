package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-f string   factor analysis service base URL
//	-w int      factor analysis call timeout, seconds
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name (enables archiving)
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-r int      archive write timeout, seconds
//
// Only the flags above are considered (see flagx.FilterArgs), so the -c
// config flag and anything else on the command line are left alone.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-f", "-w", "-l", "-u", "-p", "-b", "-g", "-e", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.AnalysisServiceURL, "f", config.AnalysisServiceURL, "factor analysis service URL")
	timeoutSeconds := fs.Int("w", int(config.AnalysisTimeout.Seconds()), "factor analysis timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	archiveSeconds := fs.Int("r", int(config.ArchiveTimeout.Seconds()), "archive write timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*tokenMinutes) * time.Minute
	config.AnalysisTimeout = time.Duration(*timeoutSeconds) * time.Second
	config.ArchiveTimeout = time.Duration(*archiveSeconds) * time.Second
}
