// Package config loads settings from an optional YAML file with environment
// variable overrides. The CLI itself takes no flags beyond help/version, so
// everything tunable lives here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config.yaml"

// Config holds all application configuration.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Scraper struct {
		Source         string `yaml:"source"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Proxy          string `yaml:"proxy"`
	} `yaml:"scraper"`
	Workers int `yaml:"workers"`
}

// HTTPTimeout is the scraper request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SHARECHECK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SHARECHECK_SOURCE"); v != "" {
		cfg.Scraper.Source = v
	}
	if v := os.Getenv("SHARECHECK_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SHARECHECK_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		cfg.Scraper.TimeoutSeconds = n
	}
	if v := os.Getenv("SHARECHECK_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SHARECHECK_WORKERS must be a positive integer, got %q", v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Scraper.Proxy = v
	}

	// Defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "share_prices.db"
	}
	if cfg.Scraper.Source == "" {
		cfg.Scraper.Source = "google"
	}
	if cfg.Scraper.TimeoutSeconds == 0 {
		cfg.Scraper.TimeoutSeconds = 30
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	return cfg, nil
}
