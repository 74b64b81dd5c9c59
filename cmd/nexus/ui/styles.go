// Package ui provides the visual styling for the nexus terminal browser.
// Slate and indigo palette with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"nexus/internal/catalog"
	"nexus/internal/config"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#f8fafc") // slate-50
	LightForeground = lipgloss.Color("#0f172a") // slate-900
	LightPrimary    = lipgloss.Color("#4f46e5") // indigo-600
	LightAccent     = lipgloss.Color("#9333ea") // purple-600
	LightMuted      = lipgloss.Color("#64748b") // slate-500
	LightBorder     = lipgloss.Color("#cbd5e1") // slate-300
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#020617") // slate-950
	DarkForeground = lipgloss.Color("#f1f5f9") // slate-100
	DarkPrimary    = lipgloss.Color("#818cf8") // indigo-400
	DarkAccent     = lipgloss.Color("#c084fc") // purple-400
	DarkMuted      = lipgloss.Color("#94a3b8") // slate-400
	DarkBorder     = lipgloss.Color("#334155") // slate-700
	DarkCard       = lipgloss.Color("#0f172a") // slate-900

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#ef4444")
	Success     = lipgloss.Color("#22c55e")
	Warning     = lipgloss.Color("#eab308")
	Info        = lipgloss.Color("#3b82f6")
)

// categoryColors tag each game category.
var categoryColors = map[catalog.Category]lipgloss.Color{
	catalog.CategoryAction:   lipgloss.Color("#f97316"),
	catalog.CategoryPuzzle:   lipgloss.Color("#06b6d4"),
	catalog.CategorySports:   lipgloss.Color("#22c55e"),
	catalog.CategoryArcade:   lipgloss.Color("#ec4899"),
	catalog.CategoryStrategy: lipgloss.Color("#eab308"),
}

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme resolves the configured preference. For auto it checks
// NEXUS_DARK_MODE, then the COLORFGBG background index, and defaults to dark.
func DetectTheme(pref config.Theme) Theme {
	switch pref {
	case config.ThemeDark:
		return DarkTheme()
	case config.ThemeLight:
		return LightTheme()
	}

	switch os.Getenv("NEXUS_DARK_MODE") {
	case "1", "true":
		return DarkTheme()
	case "0", "false":
		return LightTheme()
	}

	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if bgIdx == 7 || bgIdx >= 9 {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Logo     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Catalog
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	Featured     lipgloss.Style
	SearchBox    lipgloss.Style
	Pane         lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Card: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2),

		CardSelected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			PaddingLeft(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(theme.Accent),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Featured: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme(config.ThemeAuto))
}

// Logo renders the wordmark. Activating it resets all filters.
func Logo(s Styles) string {
	return s.Logo.Render("NEXUS") + " " + s.Title.Foreground(s.Theme.Accent).Render("GAMES")
}

// CategoryBadge renders a colored category label.
func (s Styles) CategoryBadge(c catalog.Category) string {
	color, ok := categoryColors[c]
	if !ok {
		color = s.Theme.Muted
	}
	return s.Badge.Background(color).Render(strings.ToUpper(c.String()))
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
