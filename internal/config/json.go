package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Empty fields leave the current
// value untouched.
type JsonConfig struct {
	Mode      string          `json:"mode"`
	LogLevel  string          `json:"log_level"`
	LogFormat string          `json:"log_format"`
	SecretKey string          `json:"secret_key"`
	TokenTTL  *timex.Duration `json:"token_ttl"`
	Token     string          `json:"token"`
}

// parseJson overlays the JSON file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setIf(&config.Mode, c.Mode)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.Token, c.Token)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}

	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
