package tui

import (
	"time"

	"nexus/internal/viewer"

	"github.com/charmbracelet/bubbles/key"
)

// focus is the component receiving keystrokes on the browse screen.
type focus int

const (
	focusList focus = iota
	focusSearch
)

// Messages

// catalogLoadedMsg completes the initial catalog load.
type catalogLoadedMsg struct {
	err     error
	elapsed time.Duration
}

// catalogReloadedMsg is posted after the watcher reloaded the catalog file.
type catalogReloadedMsg struct{ err error }

type watchErrMsg struct{ err error }

type viewerOpenedMsg struct {
	gameID  string
	session *viewer.Session
	err     error
}

type viewerActionMsg struct {
	action string
	err    error
}

type clipboardMsg struct{ err error }

type statusClearMsg struct{ id int }

const (
	// HelpText follows the game description in the "How to play" pane.
	HelpText = "Use your keyboard and mouse to interact with the game. If the game doesn't load, try refreshing or checking your connection."

	LoadingText    = "Loading Nexus Library..."
	FeaturedTitle  = "FEATURED GAMES"
	EmptyTitle     = "No games found"
	EmptyHint      = "Try adjusting your search or category filters."
	EmptyResetHint = "ctrl+r  Clear all filters"

	statusTTL = 3 * time.Second
)

type keyMap struct {
	Search     key.Binding
	NextCat    key.Binding
	PrevCat    key.Binding
	PickCat    key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Reset      key.Binding
	Close      key.Binding
	Fullscreen key.Binding
	CopyURL    key.Binding
	Blur       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextCat:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCat:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		PickCat:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "category")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Close:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back to games")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		CopyURL:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Blur:       key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "done")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k keyMap) browseHelp() helpKeys {
	return helpKeys{k.Search, k.NextCat, k.PickCat, k.Up, k.Down, k.Select, k.Reset, k.Quit}
}

func (k keyMap) searchHelp() helpKeys {
	return helpKeys{k.Blur, k.NextCat, k.Reset}
}

func (k keyMap) playHelp() helpKeys {
	return helpKeys{k.Close, k.Fullscreen, k.CopyURL, k.Reset, k.Quit}
}
