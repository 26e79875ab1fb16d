// Package config loads per-project settings from .linemark/config.toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultSeparator joins compiled bodies unless overridden per call or
// in the config file.
const DefaultSeparator = "\n\n---\n\n"

// Config holds the optional project settings. Zero values mean
// "use the default".
type Config struct {
	// Directory overrides the outline directory relative to the
	// project root.
	Directory string `toml:"directory"`
	// Separator overrides the default compile separator.
	Separator string `toml:"separator"`
}

// Load reads .linemark/config.toml under projectRoot. A missing file
// yields the zero Config and no error; a malformed file is an error.
func Load(projectRoot string) (Config, error) {
	var cfg Config
	path := filepath.Join(projectRoot, ".linemark", "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SeparatorOrDefault returns the configured separator or the default.
func (c Config) SeparatorOrDefault() string {
	if c.Separator == "" {
		return DefaultSeparator
	}
	return c.Separator
}
