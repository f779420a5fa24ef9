// Package config provides configuration loading and validation for the
// embedding toolchain.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultCurrentVersion       = "2.0.0"
	DefaultCompressionThreshold = 1024
	DefaultFetchTimeout         = 5 * time.Second
	DefaultMaxIssues            = 100
	DefaultMaxContainerBytes    = 64 << 20
)

// Config holds the tunable behavior of the embedding toolchain. All fields
// have working defaults; environment variables override them.
type Config struct {
	// CurrentVersion is the version new records are stamped with and the
	// default migration target.
	CurrentVersion string `json:"current_version" validate:"required"`

	// CompressionThreshold is the uncompressed payload size, in bytes,
	// above which compress:auto compresses.
	CompressionThreshold int `json:"compression_threshold" validate:"gte=0"`

	// CompressMode is the default compression policy: auto, on, or off.
	CompressMode string `json:"compress_mode" validate:"oneof=auto on off"`

	// Mode is the default validation mode: strict, compat, or permissive.
	Mode string `json:"mode" validate:"oneof=strict compat permissive"`

	// RemoteSchemas enables fetching declared schema URLs that pass the
	// allow-list.
	RemoteSchemas bool `json:"remote_schemas"`

	// FetchTimeout bounds one remote schema resolution.
	FetchTimeout time.Duration `json:"fetch_timeout" validate:"gte=0"`

	// MaxIssues truncates validation issue lists. Zero disables
	// truncation.
	MaxIssues int `json:"max_issues" validate:"gte=0"`

	// MaxContainerBytes bounds how large a container will be loaded.
	MaxContainerBytes int64 `json:"max_container_bytes" validate:"gt=0"`
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		CurrentVersion:       DefaultCurrentVersion,
		CompressionThreshold: DefaultCompressionThreshold,
		CompressMode:         "auto",
		Mode:                 "compat",
		RemoteSchemas:        false,
		FetchTimeout:         DefaultFetchTimeout,
		MaxIssues:            DefaultMaxIssues,
		MaxContainerBytes:    DefaultMaxContainerBytes,
	}
}

// FromEnv returns the default configuration with RESUME_EMBED_* environment
// overrides applied. Unparseable values are reported rather than ignored.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("RESUME_EMBED_CURRENT_VERSION"); v != "" {
		cfg.CurrentVersion = v
	}
	if v := os.Getenv("RESUME_EMBED_COMPRESSION_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: RESUME_EMBED_COMPRESSION_THRESHOLD: %w", err)
		}
		cfg.CompressionThreshold = n
	}
	if v := os.Getenv("RESUME_EMBED_COMPRESS_MODE"); v != "" {
		cfg.CompressMode = v
	}
	if v := os.Getenv("RESUME_EMBED_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("RESUME_EMBED_REMOTE_SCHEMAS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config error: RESUME_EMBED_REMOTE_SCHEMAS: %w", err)
		}
		cfg.RemoteSchemas = b
	}
	if v := os.Getenv("RESUME_EMBED_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config error: RESUME_EMBED_FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("RESUME_EMBED_MAX_ISSUES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: RESUME_EMBED_MAX_ISSUES: %w", err)
		}
		cfg.MaxIssues = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
