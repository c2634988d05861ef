package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ReadsVariables(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("BUCKET_NAME", "photos")
	t.Setenv("TABLE_NAME", "photos_table")
	t.Setenv("THUMBNAIL_WIDTH", "320")
	t.Setenv("THUMBNAIL_HEIGHT", "not-a-number")
	t.Setenv("UPLOAD_POLICY", "inline")
	t.Setenv("CDN_BASE_URL", "https://d1.cloudfront.net")
	t.Setenv("MAX_BODY_BYTES", "1048576")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "photos", c.BucketName)
	assert.Equal(t, "photos_table", c.TableName)
	assert.Equal(t, 320, c.ThumbnailWidth)
	assert.Equal(t, 400, c.ThumbnailHeight, "malformed numbers are ignored")
	assert.Equal(t, UploadInline, c.UploadPolicy)
	assert.Equal(t, "https://d1.cloudfront.net", c.CDNBaseURL)
	assert.Equal(t, 1<<20, c.MaxBodyBytes)
}

func TestParseEnv_DotenvFileFromFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "gallery.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nUPLOAD_URL_EXPIRY=2m\n"), 0o600))
	os.Args = []string{"testbin", "-E", path}

	// Setenv registers cleanup so values loaded by godotenv are restored.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("UPLOAD_URL_EXPIRY", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("UPLOAD_URL_EXPIRY"))

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 2*time.Minute, c.UploadURLExpiry)
}

func TestParseEnv_MissingDotenvFromFlagPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-E", filepath.Join(t.TempDir(), "nope.env")}

	c := &Config{}
	assert.Panics(t, func() { parseEnv(c) })
}
