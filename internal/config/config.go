// Package config loads the example CLI's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/FreeSlave/trashcan/internal/env"
)

var validate = validator.New()

// Config is the CLI configuration tree.
type Config struct {
	Core    Core    `yaml:"core"`
	Logging Logging `yaml:"logging"`
}

// Core holds trash placement settings mirroring the library options.
type Core struct {
	// UseTopDirs considers per-volume trash directories at all.
	UseTopDirs bool `yaml:"use_top_dirs"`

	// CheckStickyBit requires the sticky bit on $topdir/.Trash.
	CheckStickyBit bool `yaml:"check_sticky_bit"`

	// FallbackToUserDir tries $topdir/.Trash-$uid when the admin
	// directory fails its checks.
	FallbackToUserDir bool `yaml:"fallback_to_user_dir"`

	// FallbackToHomeDir falls back to the home trash as a last resort.
	FallbackToHomeDir bool `yaml:"fallback_to_home_dir"`

	// Verbose prints a line per processed file.
	Verbose bool `yaml:"verbose"`
}

// Logging controls the CLI debug log.
type Logging struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Core: Core{
			UseTopDirs:        true,
			CheckStickyBit:    true,
			FallbackToUserDir: true,
			FallbackToHomeDir: true,
		},
		Logging: Logging{
			Enabled: true,
			Level:   "debug",
		},
	}
}

// Parse loads the configuration from path, or from the default location
// when path is empty. A missing file yields the defaults.
func Parse(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := env.ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
