// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a dotenv file, a YAML file and FFEBRIDGE_* variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/domain/codes"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, also appends log entries to that file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Platform call timeouts.
	BatchTimeout    time.Duration `koanf:"batch_timeout"`
	SettingsTimeout time.Duration `koanf:"settings_timeout"`
	CheckTimeout    time.Duration `koanf:"check_timeout"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`

	// CheckConcurrency caps the parallel result checks.
	CheckConcurrency int `koanf:"check_concurrency"`

	// DefaultLevel is the level letter sent for competitions without override.
	DefaultLevel string `koanf:"default_level"`

	// TokenSecret verifies launch tokens; empty disables token credentials.
	TokenSecret string        `koanf:"token_secret"`
	TokenLeeway time.Duration `koanf:"token_leeway"`

	CORSOrigins    []string `koanf:"cors_origins"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`

	// Software tags written on the fixed-width 00 line.
	SoftwareTag       string `koanf:"software_tag"`
	GlobalSoftwareTag string `koanf:"global_software_tag"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		BatchTimeout:      60 * time.Second,
		SettingsTimeout:   15 * time.Second,
		CheckTimeout:      5 * time.Second,
		ReadTimeout:       30 * time.Second,
		CheckConcurrency:  4,
		DefaultLevel:      string(codes.DefaultLevel),
		TokenLeeway:       60 * time.Second,
		CORSOrigins:       []string{"*"},
		MaxUploadBytes:    20 << 20,
		SoftwareTag:       "V024FFECompet Export Equipe",
		GlobalSoftwareTag: "V024FFECompet Export Global",
	}
}

// Level returns the configured default level.
func (c *Config) Level() codes.Level {
	l, _ := codes.ParseLevel(c.DefaultLevel)
	return l
}

// Validate checks the values Load cannot type check.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BatchTimeout <= 0, c.SettingsTimeout <= 0, c.CheckTimeout <= 0, c.ReadTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.CheckConcurrency <= 0:
		return fmt.Errorf("%w: check_concurrency must be positive", ErrInvalidConfig)
	case c.TokenLeeway < 0:
		return fmt.Errorf("%w: token_leeway must not be negative", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	if _, ok := codes.ParseLevel(c.DefaultLevel); !ok {
		return fmt.Errorf("%w: unknown default_level %q", ErrInvalidConfig, c.DefaultLevel)
	}
	return nil
}
