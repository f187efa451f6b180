// Package config handles configuration for gatekeeper, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - Mode: guard mode, "strict" or "loose".
//   - LogLevel / LogFormat: slog level and output format (text, json, auto).
//   - SecretKey: secret the HS256 token key is derived from. Do not use the default in prod.
//   - TokenTTL: lifetime of issued identity tokens.
//   - Token: optional signed identity token to evaluate on Run.
type Config struct {
	Mode      string
	LogLevel  string
	LogFormat string
	SecretKey string
	TokenTTL  time.Duration
	Token     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Mode = "strict"
	c.LogLevel = "info"
	c.LogFormat = "auto"
	c.SecretKey = "secretKey"
	c.TokenTTL = 1 * time.Minute
	c.Token = ""
}

// LoadConfig builds a Config from os.Args. See Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then values from an optional JSON file named by
// -c/-config, then command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
