package config

// Theme selects the terminal color scheme.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ValidThemes lists accepted theme values.
var ValidThemes = []Theme{ThemeAuto, ThemeDark, ThemeLight}

func (t Theme) valid() bool {
	for _, v := range ValidThemes {
		if t == v {
			return true
		}
	}
	return false
}

// UIConfig holds user interface configuration.
type UIConfig struct {
	Theme Theme `yaml:"theme" env:"NEXUS_THEME"`

	// AltScreen runs the TUI in the terminal's alternate screen.
	AltScreen bool `yaml:"alt_screen"`
}
