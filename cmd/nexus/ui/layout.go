package ui

// Layout constants for the browser screens
const (
	HeaderHeight    = 3
	SearchHeight    = 3
	TabBarHeight    = 2
	HeadingHeight   = 2
	FooterHeight    = 2
	StatusBarHeight = 1
	FeaturedRows    = 3

	CardHeight = 2

	MinimumTerminalWidth = 40
	CompactModeWidth     = 80
	MaxContentWidth      = 120
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable width, capped for readability.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - 2
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < MinimumTerminalWidth {
		w = MinimumTerminalWidth
	}
	return w
}

// ListCapacity returns how many cards fit below the chrome.
func (l LayoutConfig) ListCapacity(showFeatured bool) int {
	h := l.TerminalHeight - HeaderHeight - SearchHeight - TabBarHeight - HeadingHeight - FooterHeight
	if showFeatured {
		h -= FeaturedRows + HeadingHeight
	}
	n := h / CardHeight
	if n < 1 {
		n = 1
	}
	return n
}

// ScrollWindow returns the [start, end) slice of a list of total items that keeps
// cursor visible in a window of capacity rows, starting from offset.
func ScrollWindow(total, cursor, offset, capacity int) (start, end int) {
	if total <= 0 || capacity <= 0 {
		return 0, 0
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	start = offset
	if cursor < start {
		start = cursor
	}
	if cursor >= start+capacity {
		start = cursor - capacity + 1
	}
	if start > total-capacity {
		start = total - capacity
	}
	if start < 0 {
		start = 0
	}
	end = start + capacity
	if end > total {
		end = total
	}
	return start, end
}
