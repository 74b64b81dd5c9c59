package config

import "time"

// ViewerConfig configures the embedded game viewer.
type ViewerConfig struct {
	Enabled  bool `yaml:"enabled" env:"NEXUS_VIEWER_ENABLED"`
	Headless bool `yaml:"headless" env:"NEXUS_VIEWER_HEADLESS"`

	// Bin is a Chrome/Chromium binary; empty lets the launcher find or fetch one.
	Bin string `yaml:"bin,omitempty" env:"NEXUS_VIEWER_BIN"`

	// DebuggerURL attaches to an already running browser instead of launching one.
	DebuggerURL string `yaml:"debugger_url,omitempty" env:"NEXUS_VIEWER_DEBUGGER_URL"`

	WindowWidth         int `yaml:"window_width"`
	WindowHeight        int `yaml:"window_height"`
	NavigationTimeoutMs int `yaml:"navigation_timeout_ms"`
}

// NavigationTimeout returns the page navigation timeout.
func (c ViewerConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}
