// Package tui is the interactive terminal browser: a Bubble Tea program rendering the
// coordinator's browsing state and driving the embedded viewer.
package tui

import (
	"context"
	"sync"
	"time"

	"nexus/cmd/nexus/ui"
	"nexus/internal/catalog"
	"nexus/internal/coordinator"
	"nexus/internal/logging"
	"nexus/internal/viewer"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// clipboardWriteAll is swapped in tests.
var clipboardWriteAll = clipboard.WriteAll

// Options configures a Model.
type Options struct {
	Store  *catalog.Store
	Viewer viewer.Viewer
	Styles ui.Styles

	// LoadTimeout bounds the catalog load; zero means no bound.
	LoadTimeout time.Duration

	// WatchPath, when set, reloads the catalog whenever that file changes.
	WatchPath string
}

// Model is the main Bubble Tea model.
type Model struct {
	store  *catalog.Store
	coord  *coordinator.Coordinator
	viewer viewer.Viewer
	styles ui.Styles
	keys   keyMap

	help     help.Model
	search   textinput.Model
	spinner  spinner.Model
	pane     viewport.Model
	renderer *glamour.TermRenderer
	cache    *ui.RenderCache

	width  int
	height int
	cursor int
	offset int
	focus  focus

	loaded      bool
	loadTimeout time.Duration
	session     *viewer.Session
	viewerErr   error
	openedAt    time.Time

	// Viewer calls run one at a time; syncViewer issues the next one when the
	// shown game differs from the selected one.
	viewerBusy bool
	shownID    string
	failedID   string

	statusMsg string
	statusID  int

	ctx      context.Context
	cancel   context.CancelFunc
	watcher  *catalog.Watcher
	reloadCh chan error
	stopOnce *sync.Once
}

// New creates the TUI model. Call Shutdown once the program has exited.
func New(opts Options) Model {
	styles := opts.Styles
	if styles.Theme.Foreground == "" {
		styles = ui.DefaultStyles()
	}
	store := opts.Store
	if store == nil {
		store = catalog.NewStore(nil)
	}
	v := opts.Viewer
	if v == nil {
		v = &viewer.Noop{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	h := help.New()
	h.ShortSeparator = " • "

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		store:       store,
		coord:       coordinator.New(store),
		viewer:      v,
		styles:      styles,
		keys:        newKeyMap(),
		help:        h,
		search:      ti,
		spinner:     s,
		pane:        viewport.New(80, 10),
		cache:       ui.NewRenderCache(64),
		width:       80,
		height:      24,
		loadTimeout: opts.LoadTimeout,
		ctx:         ctx,
		cancel:      cancel,
		stopOnce:    &sync.Once{},
	}
	m.renderer = newRenderer(styles.Theme.IsDark, 76)

	if opts.WatchPath != "" {
		m.reloadCh = make(chan error, 1)
		ch := m.reloadCh
		w, err := catalog.NewWatcher(store, opts.WatchPath, func(err error) {
			select {
			case ch <- err:
			default:
			}
		})
		if err != nil {
			logging.Get(logging.CategoryUI).Warn("Catalog watcher unavailable: %v", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

func newRenderer(dark bool, wrap int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("Markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadCatalog()}
	if m.watcher != nil {
		cmds = append(cmds, m.startWatching())
	}
	return tea.Batch(cmds...)
}

// Shutdown cancels in-flight work, stops the watcher and closes the viewer.
// Results of a load still running are discarded.
func (m Model) Shutdown() {
	m.stopOnce.Do(func() {
		m.cancel()
		if m.watcher != nil {
			m.watcher.Stop()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.viewer.Shutdown(ctx); err != nil {
			logging.Get(logging.CategoryViewer).Warn("Viewer shutdown: %v", err)
		}
		logging.Get(logging.CategoryUI).Info("Session ended")
	})
}

// Commands

func (m Model) loadCatalog() tea.Cmd {
	store, ctx, timeout := m.store, m.ctx, m.loadTimeout
	return func() tea.Msg {
		start := time.Now()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		err := store.Load(ctx)
		return catalogLoadedMsg{err: err, elapsed: time.Since(start)}
	}
}

func (m Model) startWatching() tea.Cmd {
	w, ctx, ch := m.watcher, m.ctx, m.reloadCh
	return func() tea.Msg {
		if err := w.Start(ctx); err != nil {
			return watchErrMsg{err: err}
		}
		select {
		case err := <-ch:
			return catalogReloadedMsg{err: err}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) waitForReload() tea.Cmd {
	ctx, ch := m.ctx, m.reloadCh
	return func() tea.Msg {
		select {
		case err := <-ch:
			return catalogReloadedMsg{err: err}
		case <-ctx.Done():
			return nil
		}
	}
}

// loading reports whether the first load is still settling. Later reloads keep
// the list on screen.
func (m Model) loading() bool {
	return !m.loaded && m.store.Pending()
}

// syncViewer starts the viewer call that moves the viewer toward the selected game.
func (m *Model) syncViewer() tea.Cmd {
	if m.viewerBusy {
		return nil
	}
	want := ""
	g, playing := m.coord.Selected()
	if playing {
		want = g.ID
	}
	switch {
	case want == m.shownID:
		return nil
	case want != "":
		if want == m.failedID {
			return nil
		}
		m.viewerBusy = true
		return m.openViewer(g)
	default:
		m.viewerBusy = true
		return m.closeViewer()
	}
}

func (m Model) openViewer(g catalog.Game) tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		s, err := v.Open(ctx, g)
		return viewerOpenedMsg{gameID: g.ID, session: s, err: err}
	}
}

func (m Model) closeViewer() tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		return viewerActionMsg{action: "close", err: v.Close(ctx)}
	}
}

func (m Model) toggleFullscreen() tea.Cmd {
	v, ctx := m.viewer, m.ctx
	return func() tea.Msg {
		return viewerActionMsg{action: "fullscreen", err: v.ToggleFullscreen(ctx)}
	}
}

func copyURL(url string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboardWriteAll(url)}
	}
}

// setStatus shows a transient footer message.
func (m Model) setStatus(text string) (Model, tea.Cmd) {
	m.statusID++
	m.statusMsg = text
	id := m.statusID
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{id: id} })
}
