//go:build integration

package viewer_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus/internal/catalog"
	"nexus/internal/config"
	"nexus/internal/viewer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_Open_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "<html><body><canvas id=game></canvas></body></html>")
	}))
	defer ts.Close()

	cfg := config.DefaultConfig().Viewer
	cfg.Headless = true
	m := viewer.NewSessionManager(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	defer m.Shutdown(ctx)

	s, err := m.Open(ctx, catalog.Game{ID: "a", Title: "Local", Category: catalog.CategoryArcade, IframeURL: ts.URL})
	require.NoError(t, err)
	assert.NotEmpty(t, s.TargetID)
	assert.True(t, m.IsConnected())

	// Headless windows cannot go fullscreen; the toggle is ignored.
	require.NoError(t, m.ToggleFullscreen(ctx))
	cur, ok := m.Current()
	require.True(t, ok)
	assert.False(t, cur.Fullscreen)

	s2, err := m.Open(ctx, catalog.Game{ID: "b", Title: "Second", Category: catalog.CategoryPuzzle, IframeURL: ts.URL})
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, s2.ID)

	require.NoError(t, m.Close(ctx))
	_, ok = m.Current()
	assert.False(t, ok)
}
