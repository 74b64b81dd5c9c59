package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"nexus/cmd/nexus/ui"
	"nexus/internal/catalog"
	"nexus/internal/coordinator"
	"nexus/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGames = []catalog.Game{
	{ID: "a", Title: "Space Race", Description: "Dodge asteroids.", Category: catalog.CategoryArcade, IframeURL: "https://games.example/a", Featured: true},
	{ID: "b", Title: "Block Puzzle", Description: "Fit the blocks.", Category: catalog.CategoryPuzzle, IframeURL: "https://games.example/b"},
	{ID: "c", Title: "Goal Rush", Description: "Score!", Category: catalog.CategorySports, IframeURL: "https://games.example/c"},
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T) (Model, *viewer.Noop) {
	t.Helper()
	v := &viewer.Noop{}
	m := New(Options{
		Store:  catalog.NewStoreWithGames(testGames),
		Viewer: v,
		Styles: ui.NewStyles(ui.DarkTheme()),
	})
	t.Cleanup(m.Shutdown)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// exec runs cmd and feeds its message back into the model.
func exec(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

// =============================================================================
// LOADING
// =============================================================================

func TestInit_LoadsCatalogOnce(t *testing.T) {
	src := &countingSource{data: `[{"id":"x","title":"X","category":"Action"}]`}
	m := New(Options{Store: catalog.NewStore(src), Viewer: &viewer.Noop{}})
	t.Cleanup(m.Shutdown)

	assert.True(t, m.store.Pending())
	assert.Contains(t, m.View(), LoadingText)

	msg := m.loadCatalog()()
	loaded, ok := msg.(catalogLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	m, _ = press(t, m, msg)
	assert.True(t, m.loaded)
	assert.Equal(t, 1, src.calls)
	assert.NotContains(t, m.View(), LoadingText)
	assert.Contains(t, m.View(), "1 games found")
}

func TestLoadFailure_ShowsEmptyState(t *testing.T) {
	m := New(Options{Store: catalog.NewStore(&countingSource{err: errors.New("offline")}), Viewer: &viewer.Noop{}})
	t.Cleanup(m.Shutdown)

	msg := m.loadCatalog()()
	require.ErrorIs(t, msg.(catalogLoadedMsg).err, catalog.ErrLoadFailure)

	m, _ = press(t, m, msg)
	view := m.View()
	assert.Contains(t, view, EmptyTitle)
	assert.Contains(t, view, EmptyHint)
	assert.NotContains(t, view, LoadingText)
}

func TestShutdown_DiscardsLateLoad(t *testing.T) {
	m := New(Options{Store: catalog.NewStore(&countingSource{data: `[]`}), Viewer: &viewer.Noop{}})
	cmd := m.loadCatalog()
	m.Shutdown()
	m.Shutdown()

	msg := cmd().(catalogLoadedMsg)
	assert.ErrorIs(t, msg.err, catalog.ErrLoadFailure)
	assert.Equal(t, catalog.StatusFailed, m.store.Status())
}

func TestReload_KeepsListOnScreen(t *testing.T) {
	src := &gatedSource{data: `[{"id":"x","title":"Xeno","category":"Action"}]`}
	store := catalog.NewStore(src)
	m := New(Options{Store: store, Viewer: &viewer.Noop{}})
	t.Cleanup(m.Shutdown)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, m.loadCatalog()())
	require.False(t, m.loading())

	src.gate = make(chan struct{})
	src.started = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background()) }()
	<-src.started
	require.True(t, store.Loading())

	view := m.View()
	assert.NotContains(t, view, LoadingText)
	assert.Contains(t, view, "Xeno")

	_, cmd := press(t, m, m.spinner.Tick())
	assert.Nil(t, cmd, "spinner stays stopped after the first load")

	close(src.gate)
	require.NoError(t, <-done)
}

// =============================================================================
// BROWSING
// =============================================================================

func TestBrowse_DefaultView(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "NEXUS")
	assert.Contains(t, view, FeaturedTitle)
	assert.Contains(t, view, "All Games")
	assert.Contains(t, view, "3 games found")
	assert.Contains(t, view, "Block Puzzle")
}

func TestBrowse_CategoryCycling(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, catalog.CategoryAction, m.coord.Query().Category)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, catalog.CategoryStrategy, m.coord.Query().Category)

	m, _ = press(t, m, runes("3"))
	assert.Equal(t, catalog.CategoryPuzzle, m.coord.Query().Category)
	view := m.View()
	assert.Contains(t, view, "Puzzle Games")
	assert.Contains(t, view, "1 games found")
	assert.NotContains(t, view, FeaturedTitle)
}

func TestBrowse_TypingIntoSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, runes("/"))
	require.Equal(t, focusSearch, m.focus)

	m, _ = press(t, m, runes("q"), runes("race"))
	assert.Equal(t, "qrace", m.coord.Query().Search, "q types while the search box has focus")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "qrac", m.coord.Query().Search)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Empty(t, m.coord.Query().Search)

	m, _ = press(t, m, runes("RACE"))
	assert.Equal(t, "RACE", m.coord.Query().Search)

	view := m.View()
	assert.Contains(t, view, "Search Results")
	assert.Contains(t, view, "1 games found")
	assert.Contains(t, view, "Space Race")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusList, m.focus)
	assert.Equal(t, "RACE", m.coord.Query().Search)
}

func TestBrowse_EmptyResultAndReset(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, runes("/"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.coord.EmptyResult())
	assert.Contains(t, m.View(), EmptyTitle)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, coordinator.DefaultQuery(), m.coord.Query())
	assert.Empty(t, m.search.Value())
	assert.Contains(t, m.View(), FeaturedTitle)
}

func TestBrowse_CursorIncludesFeaturedRow(t *testing.T) {
	m, _ := newTestModel(t)

	// featured(a), then a, b, c
	assert.Len(t, m.items(), 4)

	m, _ = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 3, m.cursor, "cursor stops at the last item")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, "b", m.items()[m.cursor].ID)
}

// =============================================================================
// PLAYING
// =============================================================================

func TestSelectAndClose(t *testing.T) {
	m, v := newTestModel(t)

	m, _ = press(t, m, runes("5"))
	require.Equal(t, catalog.CategoryArcade, m.coord.Query().Category)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, coordinator.Playing, m.coord.Mode())
	sel, _ := m.coord.Selected()
	assert.Equal(t, "a", sel.ID)

	m = exec(t, m, cmd)
	require.NotNil(t, m.session)
	assert.Equal(t, 1, v.Opened())

	view := m.View()
	assert.Contains(t, view, "Space Race")
	assert.Contains(t, view, "Playing in viewer")
	assert.NotEmpty(t, strings.TrimSpace(m.pane.View()))

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, coordinator.Browsing, m.coord.Mode())
	assert.Equal(t, catalog.CategoryArcade, m.coord.Query().Category, "close keeps the query")
	m = exec(t, m, cmd)
	_, open := v.Current()
	assert.False(t, open)
}

func TestPlaying_ResetClosesGame(t *testing.T) {
	m, v := newTestModel(t)
	m, _ = press(t, m, runes("/"), runes("block"), tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = exec(t, m, cmd)
	require.Equal(t, coordinator.Playing, m.coord.Mode())

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, coordinator.Browsing, m.coord.Mode())
	assert.Equal(t, coordinator.DefaultQuery(), m.coord.Query())
	m = exec(t, m, cmd)
	_, open := v.Current()
	assert.False(t, open)
}

func TestPlaying_FullscreenAndCopy(t *testing.T) {
	m, v := newTestModel(t)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = exec(t, m, cmd)

	m, cmd = press(t, m, runes("f"))
	m = exec(t, m, cmd)
	cur, ok := v.Current()
	require.True(t, ok)
	assert.True(t, cur.Fullscreen)

	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, cmd = press(t, m, runes("y"))
	m = exec(t, m, cmd)
	assert.Equal(t, "https://games.example/a", copied)
	assert.Equal(t, "Game URL copied", m.statusMsg)

	m, _ = press(t, m, statusClearMsg{id: m.statusID})
	assert.Empty(t, m.statusMsg)
}

func TestPlaying_ViewerFailureKeepsMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(t, m, viewerOpenedMsg{gameID: "a", err: errors.New("no chrome")})
	assert.Equal(t, coordinator.Playing, m.coord.Mode())
	assert.Contains(t, m.View(), "Viewer unavailable: no chrome")
}

func TestPlaying_LateViewerOpenIsClosed(t *testing.T) {
	m, v := newTestModel(t)
	m, open := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	next, cmd := m.Update(open())
	m = next.(Model)
	assert.Nil(t, m.session)
	require.NotNil(t, cmd)
	_ = cmd()
	_, stillOpen := v.Current()
	assert.False(t, stillOpen)
}

func TestPlaying_SwitchWhileViewerOpening(t *testing.T) {
	m, v := newTestModel(t)
	m, openA := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, openA)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "close waits for the pending open")

	next, cmd := m.selectGame(testGames[1])
	m = next.(Model)
	assert.Nil(t, cmd, "open waits for the pending open")

	// The first open lands after the switch; the viewer moves on to the new game.
	next, cmd = m.Update(openA())
	m = next.(Model)
	assert.Nil(t, m.session)
	m = exec(t, m, cmd)

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.GameID)
	assert.Equal(t, 2, v.Opened())
	require.NotNil(t, m.session)
	assert.Equal(t, "b", m.session.GameID)
	assert.Contains(t, m.View(), "Playing in viewer")
}

func TestPlaying_FailedOpenIsNotRetried(t *testing.T) {
	m, v := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := press(t, m, viewerOpenedMsg{gameID: "a", err: errors.New("no chrome")})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, v.Opened())

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "nothing is shown, nothing to close")
	assert.Equal(t, coordinator.Browsing, m.coord.Mode())
}

func TestHowToPlay_PlainFallback(t *testing.T) {
	m, _ := newTestModel(t)
	m.renderer = nil

	md := m.howToPlay(testGames[1])
	assert.True(t, strings.HasPrefix(md, "## How to play"))
	assert.Contains(t, md, "Fit the blocks.")
	assert.Contains(t, md, HelpText)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WindowSize_Zero(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Equal(t, 100, m.width)
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestRenderList_HeightResize(t *testing.T) {
	games := make([]catalog.Game, 40)
	for i := range games {
		games[i] = catalog.Game{
			ID:       fmt.Sprintf("g%02d", i),
			Title:    fmt.Sprintf("Title-%02d", i),
			Category: catalog.CategoryAction,
		}
	}
	newModel := func(height int) Model {
		m := New(Options{Store: catalog.NewStoreWithGames(games), Viewer: &viewer.Noop{}})
		t.Cleanup(m.Shutdown)
		m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: height})
		return m
	}
	cards := func(m Model) int { return strings.Count(m.View(), "Title-") }

	m := newModel(20)
	short := cards(m)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	fresh := cards(newModel(60))
	assert.Greater(t, fresh, short)
	assert.Equal(t, fresh, cards(m))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
	assert.True(t, strings.HasSuffix(truncate("ééééé", 2), "…"))
}

type countingSource struct {
	data  string
	err   error
	calls int
}

func (s *countingSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.data), nil
}

func (s *countingSource) Location() string { return "test://games" }

// gatedSource blocks Fetch on gate, when set, after signalling started.
type gatedSource struct {
	data    string
	gate    chan struct{}
	started chan struct{}
}

func (s *gatedSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.gate != nil {
		close(s.started)
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []byte(s.data), nil
}

func (s *gatedSource) Location() string { return "test://gated" }
