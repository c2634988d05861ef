package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gallery/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads a dotenv file (the -E/-env-file flag, or ./.env when
// present) and then copies every recognised, non-empty environment variable
// into config. Variables already set in the process environment win over
// the dotenv file. Malformed numbers and durations are ignored.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("ADDRESS", &config.EndpointAddrHTTP)
	str("STORE_BACKEND", &config.StoreBackend)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("TABLE_NAME", &config.TableName)
	str("ASSET_BACKEND", &config.AssetBackend)
	str("BUCKET_NAME", &config.BucketName)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("CDN_BASE_URL", &config.CDNBaseURL)
	str("MANIFEST_KEY", &config.ManifestKey)
	str("UPLOAD_POLICY", &config.UploadPolicy)
	dur("UPLOAD_URL_EXPIRY", &config.UploadURLExpiry)
	num("THUMBNAIL_WIDTH", &config.ThumbnailWidth)
	num("THUMBNAIL_HEIGHT", &config.ThumbnailHeight)
	num("MAX_BODY_BYTES", &config.MaxBodyBytes)
	str("TOKEN_SECRET", &config.TokenSecret)
	num("CONFLICT_RETRIES", &config.ConflictRetries)
	str("LOG_BACKEND", &config.LogBackend)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FILE", &config.LogFile)
}
