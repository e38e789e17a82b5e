package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SchemaPaths []string // .hcl/.yaml host model manifests

	LogFormat     string
	LogLevel      string
	Workers       int
	OutputFormat  string // text or json
	Color         bool
	Width         uint
	WarnOverrides bool
}

var (
	validLogLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats    = map[string]bool{"text": true, "json": true}
	validOutputFormats = map[string]bool{"text": true, "json": true}
)

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if len(cfg.SchemaPaths) == 0 {
		errs = append(errs, errors.New("SchemaPaths is a required configuration field and cannot be empty"))
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !validLogFormats[cfg.LogFormat] {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}
	if !validOutputFormats[cfg.OutputFormat] {
		errs = append(errs, fmt.Errorf("invalid output format %q: must be 'text' or 'json'", cfg.OutputFormat))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", cfg.Workers))
	}
	if cfg.Width == 0 {
		cfg.Width = 100
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
