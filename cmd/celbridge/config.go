package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the optional celbridge.toml configuration.
type Config struct {
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// ScenarioDir is prepended to relative scenario paths.
	ScenarioDir string `toml:"scenario_dir"`

	// MemoryLimitPages caps guest memory in 64KB pages. 0 means the
	// runtime default.
	MemoryLimitPages uint32 `toml:"memory_limit_pages"`
}

const defaultConfigPath = "celbridge.toml"

// LoadConfig reads path, or celbridge.toml in the working directory when
// path is empty. A missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
