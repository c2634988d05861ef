package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envServerURL = "GALLERY_URL"
	envToken     = "GALLERY_TOKEN"
	envTimeout   = "GALLERY_TIMEOUT"
)

// Config holds runtime settings for galleryctl.
//
// Fields:
//   - ServerURL: base URL of the gallery HTTP API.
//   - Token: bearer token sent with every request; empty sends none.
//   - Timeout: per-request HTTP timeout.
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 30 * time.Second
}

// parseEnv overlays values from a .env file (if any) and the environment.
// A malformed timeout is ignored.
func parseEnv(c *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv(envServerURL); ok && v != "" {
		c.ServerURL = v
	}
	if v, ok := os.LookupEnv(envToken); ok {
		c.Token = v
	}
	if v, ok := os.LookupEnv(envTimeout); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
}

// LoadConfig builds a Config from defaults, the environment and, when
// jsonPath is not empty, a JSON file. Later sources take precedence.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if jsonPath != "" {
		if err := parseJson(cfg, jsonPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
