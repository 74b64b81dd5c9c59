package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all nexus configuration.
type Config struct {
	// Where the game catalog comes from
	Catalog CatalogConfig `yaml:"catalog"`

	// Embedded game viewer (browser window)
	Viewer ViewerConfig `yaml:"viewer"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source: "./games.json",
		},
		Viewer: ViewerConfig{
			Enabled:             true,
			Headless:            false,
			WindowWidth:         1280,
			WindowHeight:        800,
			NavigationTimeoutMs: 30000,
		},
		UI: UIConfig{
			Theme:     ThemeAuto,
			AltScreen: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
			Dir:       defaultLogDir(),
		},
	}
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "nexus.yaml"
	}
	return filepath.Join(dir, "nexus", "config.yaml")
}

func defaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nexus", "logs")
	}
	return filepath.Join(dir, "nexus", "logs")
}

// Load reads path over the defaults and applies NEXUS_* environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides overwrites fields whose env variable is set.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Catalog.Source == "" {
		return fmt.Errorf("catalog source not configured (set catalog.source or NEXUS_CATALOG)")
	}
	if !c.UI.Theme.valid() {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if _, err := c.Logging.ZapLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
