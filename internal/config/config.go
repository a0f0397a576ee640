package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robofuse/termbar/pkg/progress"
)

// config.go loads, validates, and exposes application configuration.

// MaxTotal bounds the number of simulated items a run may schedule.
const MaxTotal = 1_000_000

var instance *Config

// Config holds the application configuration
type Config struct {
	Description    string `json:"description"`
	Total          uint64 `json:"total"`
	TimeoutMS      int    `json:"timeout_ms"`
	Style          string `json:"style"`
	Workers        int    `json:"workers"`
	ItemsPerSecond int    `json:"items_per_second"`
	LogLevel       string `json:"log_level"`
	LogDir         string `json:"log_dir"`

	// Internal
	Path string `json:"-"` // Directory of the loaded config file, empty when defaults are used
}

// defaults returns a Config with default values
func defaults() *Config {
	return &Config{
		Description:    "Working",
		Total:          100,
		TimeoutMS:      int(progress.DefaultTimeout / time.Millisecond),
		Style:          "default",
		Workers:        4,
		ItemsPerSecond: 50,
		LogLevel:       "info",
		LogDir:         ".",
	}
}

// Load reads configuration from a JSON file. When no file is found the
// defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	paths := []string{
		configPath,
		"termbar.json",
		filepath.Join(os.Getenv("HOME"), ".config/termbar/config.json"),
	}

	var configFile string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			configFile = p
			break
		}
	}

	if configFile == "" {
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Path = filepath.Dir(configFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects unknown styles and resets out-of-range numbers to defaults
func (c *Config) Validate() error {
	if _, err := progress.StyleByName(c.Style); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}

	if c.Total > MaxTotal {
		c.Total = MaxTotal
	}

	if c.TimeoutMS < 0 {
		c.TimeoutMS = 0
	}

	if c.Workers < 1 {
		c.Workers = 4
	}

	if c.ItemsPerSecond < 0 {
		c.ItemsPerSecond = 0
	}

	if c.LogDir == "" {
		c.LogDir = "."
	}

	return nil
}

// Timeout returns the redraw timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// BarStyle resolves the configured style name
func (c *Config) BarStyle() progress.Style {
	s, err := progress.StyleByName(c.Style)
	if err != nil {
		return progress.DefaultStyle
	}
	return s
}

// Get returns the singleton config instance
func Get() *Config {
	if instance == nil {
		return defaults()
	}
	return instance
}

// SetInstance sets the global config instance
func SetInstance(cfg *Config) {
	instance = cfg
}
