// Package config loads the compiler's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Dump formats
const (
	DumpText = "text"
	DumpYAML = "yaml"
)

// ErrInvalid is returned for configurations that fail validation
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings read from a configuration file
type Config struct {
	// Natives are builtin functions registered before parsing
	Natives  []string `yaml:"natives"`
	LogLevel string   `yaml:"log_level"`
	Dump     string   `yaml:"dump"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{LogLevel: "info", Dump: DumpText}
}

// Load reads and validates the configuration at path. Missing fields keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	switch c.Dump {
	case DumpText, DumpYAML:
	default:
		return fmt.Errorf("%w: dump format %q", ErrInvalid, c.Dump)
	}
	seen := make(map[string]bool)
	for _, name := range c.Natives {
		if name == "" {
			return fmt.Errorf("%w: empty native name", ErrInvalid)
		}
		if seen[name] {
			return fmt.Errorf("%w: native %q listed twice", ErrInvalid, name)
		}
		seen[name] = true
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
