// Package config holds the server configuration, read from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config of the Klondike server.
type Config struct {
	// Addr to listen on; empty picks a free port on localhost.
	Addr string `yaml:"addr"`

	// DrawMode used by new games that don't ask for one: 1 or 3.
	DrawMode int `yaml:"draw_mode"`

	// AutoCompleteInterval between two auto-complete steps.
	AutoCompleteInterval time.Duration `yaml:"auto_complete_interval"`

	// StuckCheckDelay after a move before checking whether the game is stuck.
	StuckCheckDelay time.Duration `yaml:"stuck_check_delay"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DrawMode:             1,
		AutoCompleteInterval: 150 * time.Millisecond,
		StuckCheckDelay:      500 * time.Millisecond,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values are usable.
func (c Config) Validate() error {
	var errs []error
	if c.DrawMode != 1 && c.DrawMode != 3 {
		errs = append(errs, fmt.Errorf("draw_mode must be 1 or 3, got %d", c.DrawMode))
	}
	if c.AutoCompleteInterval <= 0 {
		errs = append(errs, fmt.Errorf("auto_complete_interval must be positive, got %s", c.AutoCompleteInterval))
	}
	if c.StuckCheckDelay < 0 {
		errs = append(errs, fmt.Errorf("stuck_check_delay can't be negative, got %s", c.StuckCheckDelay))
	}
	return errors.Join(errs...)
}
