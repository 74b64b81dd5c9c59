package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexus/cmd/nexus/ui"
	"nexus/internal/catalog"
	"nexus/internal/coordinator"
	"nexus/internal/logging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogLoadedMsg:
		m.loaded = true
		games := len(m.store.Games())
		logging.Audit().CatalogLoaded(m.store.Location(), games, msg.elapsed.Milliseconds(), msg.err)
		if msg.err != nil {
			// A failed load shows the ordinary empty state.
			logging.Get(logging.CategoryUI).Warn("Catalog unavailable: %v", msg.err)
		}
		m.clampCursor()
		m.syncOffset()
		return m, nil

	case catalogReloadedMsg:
		logging.Audit().CatalogReloaded(m.store.Location(), msg.err)
		m.clampCursor()
		var cmd tea.Cmd
		if msg.err == nil {
			m, cmd = m.setStatus(fmt.Sprintf("Library reloaded: %d games", len(m.store.Games())))
		}
		return m, tea.Batch(cmd, m.waitForReload())

	case watchErrMsg:
		logging.Get(logging.CategoryUI).Warn("Catalog watcher failed to start: %v", msg.err)
		return m, nil

	case viewerOpenedMsg:
		return m.handleViewerOpened(msg)

	case viewerActionMsg:
		if msg.err != nil {
			logging.Get(logging.CategoryViewer).Warn("Viewer %s failed: %v", msg.action, msg.err)
		}
		if msg.action != "close" {
			return m, nil
		}
		m.viewerBusy = false
		m.shownID = ""
		cmd := m.syncViewer()
		return m, cmd

	case clipboardMsg:
		if msg.err != nil {
			logging.Get(logging.CategoryUI).Warn("Clipboard write failed: %v", msg.err)
			return m.setStatus("Clipboard unavailable")
		}
		return m.setStatus("Game URL copied")

	case statusClearMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) resize(width, height int) Model {
	if width <= 0 || height <= 0 {
		return m
	}
	m.width, m.height = width, height
	m.help.Width = width

	contentWidth := m.layout().ContentWidth()
	m.search.Width = contentWidth - 8
	if m.search.Width < 10 {
		m.search.Width = 10
	}
	m.pane.Width = contentWidth - 4
	m.pane.Height = height - 12
	if m.pane.Height < 3 {
		m.pane.Height = 3
	}
	m.renderer = newRenderer(m.styles.Theme.IsDark, m.pane.Width-2)
	if g, ok := m.coord.Selected(); ok {
		m.pane.SetContent(m.howToPlay(g))
	}
	m.syncOffset()
	return m
}

func (m Model) handleViewerOpened(msg viewerOpenedMsg) (tea.Model, tea.Cmd) {
	m.viewerBusy = false
	g, ok := m.coord.Selected()
	current := ok && g.ID == msg.gameID

	if msg.err != nil {
		m.shownID = ""
		m.failedID = msg.gameID
		logging.Get(logging.CategoryViewer).Error("Could not open %s: %v", msg.gameID, msg.err)
		if current {
			m.viewerErr = msg.err
			logging.Audit().ViewerError(msg.gameID, msg.err)
		}
		cmd := m.syncViewer()
		return m, cmd
	}

	m.shownID = msg.gameID
	if current {
		m.session = msg.session
		m.viewerErr = nil
		logging.AuditWithSession(msg.session.ID).GameOpened(msg.gameID)
	}
	// A game closed or replaced while the viewer was opening is closed or
	// swapped here.
	cmd := m.syncViewer()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Reset) {
		return m.resetAll()
	}
	if m.coord.Mode() == coordinator.Playing {
		return m.handlePlayingKey(msg)
	}
	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m.closeGame()
	case key.Matches(msg, m.keys.Fullscreen):
		return m, m.toggleFullscreen()
	case key.Matches(msg, m.keys.CopyURL):
		g, _ := m.coord.Selected()
		return m, copyURL(g.IframeURL)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Blur):
		m.focus = focusList
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.NextCat):
		return m.setCategory(m.coord.Query().Category.Next()), nil
	case key.Matches(msg, m.keys.PrevCat):
		return m.setCategory(m.coord.Query().Category.Prev()), nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.coord.Query().Search {
		m.coord.SetSearch(v)
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextCat):
		return m.setCategory(m.coord.Query().Category.Next()), nil
	case key.Matches(msg, m.keys.PrevCat):
		return m.setCategory(m.coord.Query().Category.Prev()), nil
	case key.Matches(msg, m.keys.PickCat):
		idx := int(msg.Runes[0] - '1')
		return m.setCategory(catalog.Categories()[idx]), nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncOffset()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
		m.syncOffset()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		items := m.items()
		if m.cursor < 0 || m.cursor >= len(items) {
			return m, nil
		}
		return m.selectGame(items[m.cursor])
	case key.Matches(msg, m.keys.Close):
		if m.coord.Query().Search != "" {
			m.search.SetValue("")
			m.coord.SetSearch("")
			m.cursor, m.offset = 0, 0
		}
		return m, nil
	}
	return m, nil
}

func (m Model) setCategory(c catalog.Category) Model {
	if c == m.coord.Query().Category {
		return m
	}
	m.coord.SetCategory(c)
	m.cursor, m.offset = 0, 0
	logging.Get(logging.CategoryUI).Debug("Category: %s", c)
	return m
}

func (m Model) selectGame(g catalog.Game) (tea.Model, tea.Cmd) {
	m.coord.SelectGame(g)
	if m.coord.TakeScrollTop() {
		m.pane.GotoTop()
	}
	m.focus = focusList
	m.search.Blur()
	m.session = nil
	m.viewerErr = nil
	m.openedAt = time.Now()
	m.failedID = ""
	m.pane.SetContent(m.howToPlay(g))
	logging.Get(logging.CategoryUI).Info("Selected game %s (%s)", g.ID, g.Title)
	cmd := m.syncViewer()
	return m, cmd
}

func (m Model) closeGame() (tea.Model, tea.Cmd) {
	g, ok := m.coord.Selected()
	if !ok {
		return m, nil
	}
	m.coord.CloseGame()
	m.session = nil
	m.viewerErr = nil
	logging.Audit().GameClosed(g.ID, time.Since(m.openedAt).Milliseconds())
	m.clampCursor()
	cmd := m.syncViewer()
	return m, cmd
}

func (m Model) resetAll() (tea.Model, tea.Cmd) {
	wasPlaying := m.coord.Mode() == coordinator.Playing
	g, _ := m.coord.Selected()

	m.coord.ResetAll()
	m.search.SetValue("")
	m.search.Blur()
	m.focus = focusList
	m.cursor, m.offset = 0, 0
	m.session = nil
	m.viewerErr = nil
	logging.Audit().FiltersReset()

	if wasPlaying {
		logging.Audit().GameClosed(g.ID, time.Since(m.openedAt).Milliseconds())
		cmd := m.syncViewer()
		return m, cmd
	}
	return m, nil
}

// items is the cursor's list: the featured row (when shown) followed by the results.
func (m Model) items() []catalog.Game {
	visible := m.coord.Visible()
	if !m.coord.ShowFeatured() {
		return visible
	}
	featured := m.coord.Featured()
	return append(featured, visible...)
}

func (m *Model) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// syncOffset scrolls the result window so the cursor stays visible.
func (m *Model) syncOffset() {
	listCursor := m.cursor
	if m.coord.ShowFeatured() {
		listCursor -= len(m.coord.Featured())
	}
	if listCursor < 0 {
		m.offset = 0
		return
	}
	capacity := m.layout().ListCapacity(m.coord.ShowFeatured())
	m.offset, _ = ui.ScrollWindow(len(m.coord.Visible()), listCursor, m.offset, capacity)
}

// viewerStatus describes the viewer for the playing screen.
func (m Model) viewerStatus() string {
	switch {
	case m.viewerErr != nil:
		if errors.Is(m.viewerErr, context.Canceled) {
			return "Viewer closed"
		}
		return "Viewer unavailable: " + m.viewerErr.Error()
	case m.session != nil:
		return "Playing in viewer"
	default:
		return "Opening viewer..."
	}
}
