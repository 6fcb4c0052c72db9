package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the user configuration, read from config.yaml in the config
// directory. Every field has a usable default; a missing file is not an
// error.
type config struct {
	// Precision is the working precision of calculations in bits.
	Precision uint `yaml:"precision"`
	// Compat selects the reduced, units-compatible builtin table.
	Compat bool `yaml:"compat"`
	// Locale is a BCP 47 tag controlling digit grouping of approximations.
	Locale string `yaml:"locale"`
	// Prompt is the interactive prompt.
	Prompt string `yaml:"prompt"`
}

func defaultConfig() config {
	return config{
		Precision: 256,
		Locale:    "en",
		Prompt:    "> ",
	}
}

// loadConfig reads the configuration file at path, falling back to defaults
// for fields the file does not set.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Precision == 0 {
		cfg.Precision = 256
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	return cfg, nil
}
