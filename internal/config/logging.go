package config

import (
	"nexus/internal/logging"

	"go.uber.org/zap/zapcore"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level" env:"NEXUS_LOG_LEVEL"`

	// One file per category per day
	Dir string `yaml:"dir" env:"NEXUS_LOG_DIR"`

	// Master toggle - false = no logging
	DebugMode bool `yaml:"debug_mode" env:"NEXUS_DEBUG"`

	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// ZapLevel parses Level, defaulting to info.
func (c *LoggingConfig) ZapLevel() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.Level)
}

// Options converts the config for logging.Initialize.
func (c *LoggingConfig) Options() logging.Options {
	return logging.Options{
		DebugMode:  c.DebugMode,
		Level:      c.Level,
		Dir:        c.Dir,
		JSONFormat: c.JSONFormat,
		Categories: c.Categories,
	}
}
