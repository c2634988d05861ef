package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gallery/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL string         `json:"server_url"`
	Token     string         `json:"token"`
	Timeout   timex.Duration `json:"timeout"`
}

// parseJson overlays c with the non-empty values found in the file at path.
func parseJson(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		c.ServerURL = jc.ServerURL
	}
	if jc.Token != "" {
		c.Token = jc.Token
	}
	if jc.Timeout.Duration > 0 {
		c.Timeout = jc.Timeout.Duration
	}
	return nil
}
