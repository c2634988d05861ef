package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gallery/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   entry store backend (postgres|memory)
//	-d string   PostgreSQL DSN
//	-t string   entry table name
//	-o string   asset backend (s3|memory)
//	-b string   bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-n string   CDN base URL
//	-m string   manifest key
//	-l string   upload policy (presign|inline)
//	-x int      upload URL expiry, minutes
//	-k string   bearer token HMAC secret
//	-L string   log level
//
// Only these flags are taken from os.Args (see flagx.FilterArgs), so the
// -c and -E flags used by other sources do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-s", "-d", "-t", "-o", "-b", "-g", "-e", "-u", "-p", "-n", "-m", "-l", "-x", "-k", "-L",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "entry store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TableName, "t", config.TableName, "entry table name")
	fs.StringVar(&config.AssetBackend, "o", config.AssetBackend, "asset store backend")
	fs.StringVar(&config.BucketName, "b", config.BucketName, "bucket name")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.CDNBaseURL, "n", config.CDNBaseURL, "CDN base URL")
	fs.StringVar(&config.ManifestKey, "m", config.ManifestKey, "manifest key")
	fs.StringVar(&config.UploadPolicy, "l", config.UploadPolicy, "upload policy")

	uploadURLExpiry := fs.Int("x", int(config.UploadURLExpiry.Minutes()), "upload URL expiry (in minutes)")

	fs.StringVar(&config.TokenSecret, "k", config.TokenSecret, "bearer token secret")
	fs.StringVar(&config.LogLevel, "L", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Sub-minute expiries from other sources survive unless -x is given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" {
			config.UploadURLExpiry = time.Duration(*uploadURLExpiry) * time.Minute
		}
	})
}
