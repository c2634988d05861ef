package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.BucketName = "gallery-assets"
	c.TableName = "gallery_entries"
	return c
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, StorePostgres, c.StoreBackend)
	assert.Equal(t, AssetsS3, c.AssetBackend)
	assert.Equal(t, "data.json", c.ManifestKey)
	assert.Equal(t, UploadPresign, c.UploadPolicy)
	assert.Equal(t, 5*time.Minute, c.UploadURLExpiry)
	assert.Equal(t, 3, c.ConflictRetries)
	assert.Equal(t, 16<<20, c.MaxBodyBytes)
	assert.Empty(t, c.BucketName)
	assert.Empty(t, c.TableName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "memory store needs no dsn", mutate: func(c *Config) { c.StoreBackend = StoreMemory; c.DatabaseDSN = "" }},
		{name: "missing bucket", mutate: func(c *Config) { c.BucketName = "" }, wantErr: "bucket name is required"},
		{name: "missing table", mutate: func(c *Config) { c.TableName = "" }, wantErr: "table name is required"},
		{name: "bad table", mutate: func(c *Config) { c.TableName = "Drop;Table" }, wantErr: "lower-case SQL identifier"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }, wantErr: "database DSN is required"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "dynamo" }, wantErr: "unknown store backend"},
		{name: "unknown assets", mutate: func(c *Config) { c.AssetBackend = "ftp" }, wantErr: "unknown asset backend"},
		{name: "unknown policy", mutate: func(c *Config) { c.UploadPolicy = "multipart" }, wantErr: "unknown upload policy"},
		{name: "zero expiry", mutate: func(c *Config) { c.UploadURLExpiry = 0 }, wantErr: "expiry must be positive"},
		{name: "zero thumbnail", mutate: func(c *Config) { c.ThumbnailWidth = 0 }, wantErr: "thumbnail size"},
		{name: "no body limit", mutate: func(c *Config) { c.MaxBodyBytes = 0 }, wantErr: "max body size"},
		{name: "no retries", mutate: func(c *Config) { c.ConflictRetries = 0 }, wantErr: "at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket name is required")
	assert.Contains(t, err.Error(), "table name is required")
	assert.Contains(t, err.Error(), "unknown upload policy")
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("BUCKET_NAME", "env-bucket")
	t.Setenv("TABLE_NAME", "env_table")
	t.Setenv("UPLOAD_URL_EXPIRY", "90s")

	os.Args = []string{"testbin", "-b", "flag-bucket"}

	c := LoadConfig()
	require.NotNil(t, c)
	assert.Equal(t, "flag-bucket", c.BucketName)
	assert.Equal(t, "env_table", c.TableName)
	assert.Equal(t, 90*time.Second, c.UploadURLExpiry)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}
