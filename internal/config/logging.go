package config

import "labelgen/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	File      string `yaml:"file"`       // log file used by the interactive form
	DebugMode bool   `yaml:"debug_mode"` // Master toggle - false = no log file
}

// Options converts the config section into logging.Options.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{
		Level:     c.Level,
		File:      c.File,
		DebugMode: c.DebugMode,
	}
}
