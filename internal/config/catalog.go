package config

import "time"

// CatalogConfig configures where games are loaded from.
type CatalogConfig struct {
	// Source is an http(s) URL, a JSON file path, or a sqlite:// URL / .db file.
	Source string `yaml:"source" env:"NEXUS_CATALOG"`

	// Timeout bounds the single catalog fetch ("" = wait forever).
	Timeout string `yaml:"timeout,omitempty" env:"NEXUS_CATALOG_TIMEOUT"`

	// Watch reloads a file catalog whenever it changes on disk.
	Watch bool `yaml:"watch" env:"NEXUS_CATALOG_WATCH"`
}

// GetTimeout returns the fetch timeout, or 0 for none.
func (c CatalogConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
