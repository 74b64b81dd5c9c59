package viewer

import (
	"context"
	"strings"
	"testing"

	"nexus/internal/catalog"
	"nexus/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spaceRace = catalog.Game{
	ID:          "a",
	Title:       "Space Race",
	Description: "Dodge asteroids.",
	Category:    catalog.CategoryArcade,
	IframeURL:   "https://games.example/space?level=1&mode=full",
	Featured:    true,
}

func TestFrameHTML(t *testing.T) {
	doc, err := FrameHTML(spaceRace)
	require.NoError(t, err)

	assert.Contains(t, doc, `id="game-frame"`)
	assert.Contains(t, doc, `src="https://games.example/space?level=1&amp;mode=full"`)
	assert.Contains(t, doc, `allow="`+FrameAllow+`"`)
	assert.Contains(t, doc, `sandbox="`+FrameSandbox+`"`)
	assert.Contains(t, doc, "allowfullscreen")
	assert.Contains(t, doc, "<title>Space Race - Nexus Games</title>")
}

func TestFrameHTML_EscapesAttributes(t *testing.T) {
	g := spaceRace
	g.Title = `Tom "&" <Jerry>`
	g.IframeURL = `https://games.example/x"onload="alert(1)`

	doc, err := FrameHTML(g)
	require.NoError(t, err)

	assert.NotContains(t, doc, `"onload="`)
	assert.NotContains(t, doc, "<Jerry>")
	assert.Equal(t, 1, strings.Count(doc, "<iframe"))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var v Viewer = &Noop{}
	n := v.(*Noop)

	_, ok := n.Current()
	assert.False(t, ok)
	require.NoError(t, v.ToggleFullscreen(ctx), "toggle without a session is ignored")

	s, err := v.Open(ctx, spaceRace)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "a", s.GameID)
	assert.Equal(t, spaceRace.IframeURL, s.URL)

	require.NoError(t, v.ToggleFullscreen(ctx))
	cur, ok := n.Current()
	require.True(t, ok)
	assert.True(t, cur.Fullscreen)

	require.NoError(t, v.Close(ctx))
	_, ok = n.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, n.Opened())
	require.NoError(t, v.Shutdown(ctx))
}

func TestSessionManager_IdleOperations(t *testing.T) {
	ctx := context.Background()
	m := NewSessionManager(config.ViewerConfig{Headless: true})

	assert.False(t, m.IsConnected())
	assert.Empty(t, m.ControlURL())
	_, ok := m.Current()
	assert.False(t, ok)

	require.NoError(t, m.ToggleFullscreen(ctx))
	require.NoError(t, m.Close(ctx))
	require.NoError(t, m.Shutdown(ctx))
}

func TestSessionManager_WindowSize(t *testing.T) {
	w, h := NewSessionManager(config.ViewerConfig{}).windowSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 800, h)

	w, h = NewSessionManager(config.ViewerConfig{WindowWidth: 640, WindowHeight: 480}).windowSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}
