// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config holds the settings shared by the
// command-line tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the tools' configuration.
type Config struct {
	// Name filter used to select the native library.
	Library string `yaml:"library"`
	// Shared object to load for tinyusdz.
	LibraryPath string `yaml:"library_path"`
	// Maximum number of properties printed per prim.
	MaxProperties int `yaml:"max_properties"`
	// One of ColorAuto, ColorAlways or ColorNever.
	Color string `yaml:"color"`
	// One of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Number of files processed in parallel.
	Jobs int `yaml:"jobs"`
	// Maximum time to open one file. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MaxProperties: 10,
		Color:         ColorAuto,
		LogLevel:      "warn",
		Jobs:          1,
	}
}

// DefaultPath returns the location of the user's
// configuration file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "usd", "config.yaml")
}

// Load reads the configuration file at path on top of
// Default, then applies environment overrides.
// Unset or empty variables are ignored.
// An empty path means DefaultPath, which is allowed not
// to exist.
func Load(path string) (Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		case optional && errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	for _, x := range [...]struct {
		key string
		dst *string
	}{
		{"USD_LIBRARY", &c.Library},
		{"USD_LIBRARY_PATH", &c.LibraryPath},
		{"USD_LOG_LEVEL", &c.LogLevel},
		{"USD_COLOR", &c.Color},
	} {
		if v := strings.TrimSpace(os.Getenv(x.key)); v != "" {
			*x.dst = v
		}
	}
}

// Validate checks that every field holds a valid value.
func (c Config) Validate() error {
	var errs []error
	if c.MaxProperties < 0 {
		errs = append(errs, fmt.Errorf("max_properties must be non-negative, got %d", c.MaxProperties))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be positive, got %d", c.Jobs))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be non-negative, got %v", c.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the slog level named by c.LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Logger creates a text logger that writes to w at c's
// level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	l, err := c.Level()
	if err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
