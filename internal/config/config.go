// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

// Package config loads service configuration, layering defaults, an
// optional YAML file, and command-line flags.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full configuration surface consumed by the auth core
// and its adapters.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Token    TokenConfig    `koanf:"token"`
	Password PasswordConfig `koanf:"password"`
	Lockout  LockoutConfig  `koanf:"lockout"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// TokenConfig holds token-signing settings.
type TokenConfig struct {
	Issuer     string        `koanf:"issuer"`
	Audience   string        `koanf:"audience"`
	Secret     string        `koanf:"secret"`
	AccessTTL  time.Duration `koanf:"access_ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
}

// PasswordConfig holds password policy settings.
type PasswordConfig struct {
	MinLength     int  `koanf:"min_length"`
	MaxLength     int  `koanf:"max_length"`
	RequireUpper  bool `koanf:"require_upper"`
	RequireLower  bool `koanf:"require_lower"`
	RequireDigit  bool `koanf:"require_digit"`
	RequireSymbol bool `koanf:"require_symbol"`
}

// LockoutConfig holds login-lockout settings.
type LockoutConfig struct {
	Threshold int           `koanf:"threshold"`
	Duration  time.Duration `koanf:"duration"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// defaults per the documented configuration surface.
var defaults = map[string]any{
	"token.issuer":            "dispatchgrid",
	"token.audience":          "dispatchgrid-clients",
	"token.access_ttl":        8 * time.Hour,
	"token.refresh_ttl":       30 * 24 * time.Hour,
	"password.min_length":     8,
	"password.max_length":     100,
	"password.require_upper":  true,
	"password.require_lower":  true,
	"password.require_digit":  true,
	"password.require_symbol": true,
	"lockout.threshold":       5,
	"lockout.duration":        15 * time.Minute,
	"log.format":              "json",
	"log.level":               "info",
}

// Load builds a Config from defaults, an optional YAML file, and an
// optional flag set, in increasing priority.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("key", key).
				Wrap(err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}
	return &cfg, nil
}

// Validate checks settings that have no usable zero value.
func (c *Config) Validate() error {
	if c.Token.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token.secret is required")
	}
	if c.Password.MinLength <= 0 || c.Password.MaxLength < c.Password.MinLength {
		return oops.Code("CONFIG_INVALID").
			With("min_length", c.Password.MinLength).
			With("max_length", c.Password.MaxLength).
			Errorf("password length bounds are invalid")
	}
	if c.Lockout.Threshold <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("threshold", c.Lockout.Threshold).
			Errorf("lockout.threshold must be positive")
	}
	return nil
}
