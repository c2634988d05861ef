package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gallery/internal/flagx"
	"github.com/dmitrijs2005/gallery/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// UploadURLExpiry accepts both "5m" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	StoreBackend     string         `json:"store_backend"`
	DatabaseDSN      string         `json:"database_dsn"`
	TableName        string         `json:"table_name"`
	AssetBackend     string         `json:"asset_backend"`
	BucketName       string         `json:"bucket_name"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	CDNBaseURL       string         `json:"cdn_base_url"`
	ManifestKey      string         `json:"manifest_key"`
	UploadPolicy     string         `json:"upload_policy"`
	UploadURLExpiry  timex.Duration `json:"upload_url_expiry"`
	ThumbnailWidth   int            `json:"thumbnail_width"`
	ThumbnailHeight  int            `json:"thumbnail_height"`
	MaxBodyBytes     int            `json:"max_body_bytes"`
	TokenSecret      string         `json:"token_secret"`
	ConflictRetries  int            `json:"conflict_retries"`
	LogBackend       string         `json:"log_backend"`
	LogLevel         string         `json:"log_level"`
	LogFile          string         `json:"log_file"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. Only fields present
// (non-zero) in the file override the current values.
//
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.TableName, c.TableName)
	setString(&config.AssetBackend, c.AssetBackend)
	setString(&config.BucketName, c.BucketName)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.CDNBaseURL, c.CDNBaseURL)
	setString(&config.ManifestKey, c.ManifestKey)
	setString(&config.UploadPolicy, c.UploadPolicy)
	if c.UploadURLExpiry.Duration != 0 {
		config.UploadURLExpiry = c.UploadURLExpiry.Duration
	}
	setInt(&config.ThumbnailWidth, c.ThumbnailWidth)
	setInt(&config.ThumbnailHeight, c.ThumbnailHeight)
	setInt(&config.MaxBodyBytes, c.MaxBodyBytes)
	setString(&config.TokenSecret, c.TokenSecret)
	setInt(&config.ConflictRetries, c.ConflictRetries)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
