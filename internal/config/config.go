package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"labelgen/internal/logging"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "labelgen.yaml"

// SQLite driver names registered by internal/store.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, needs cgo
)

// ValidDrivers lists the accepted store.driver values.
var ValidDrivers = []string{DriverModernc, DriverMattn}

// Config holds all labelgen configuration.
type Config struct {
	// Record store
	Store StoreConfig `yaml:"store"`

	// Printed label text
	Label LabelConfig `yaml:"label"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the LabelHistory database.
type StoreConfig struct {
	Path   string `yaml:"path"`
	Driver string `yaml:"driver"` // sqlite, sqlite3
}

// LabelConfig configures the rendered label.
type LabelConfig struct {
	Company string `yaml:"company"` // first line of every label
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:   "labels.db",
			Driver: DriverModernc,
		},
		Label: LabelConfig{
			Company: "Semper Five LLC.",
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      "labelgen.log",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	validDriver := false
	for _, d := range ValidDrivers {
		if c.Store.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid store driver: %s (valid: %v)", c.Store.Driver, ValidDrivers)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}
