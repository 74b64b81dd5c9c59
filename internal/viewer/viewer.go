// Package viewer hosts a selected game's embedded content in a browser window.
package viewer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"nexus/internal/catalog"
)

// Session describes the game currently shown in the viewer.
type Session struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	TargetID   string    `json:"target_id,omitempty"`
	Fullscreen bool      `json:"fullscreen"`
	CreatedAt  time.Time `json:"created_at"`
}

// Viewer opens games in an embedded frame. Only one game is shown at a time;
// Open replaces whatever was open before.
type Viewer interface {
	Open(ctx context.Context, game catalog.Game) (*Session, error)
	// ToggleFullscreen is best-effort. Platforms that cannot go fullscreen ignore it.
	ToggleFullscreen(ctx context.Context) error
	Close(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// FrameAllow is the permission policy granted to embedded games.
const FrameAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

// FrameSandbox is the sandbox token list of the game frame.
const FrameSandbox = "allow-scripts allow-same-origin allow-forms allow-pointer-lock allow-popups allow-modals"

var frameTemplate = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - Nexus Games</title>
<style>
html, body { margin: 0; height: 100%; background: #000; overflow: hidden; }
#game-frame { border: none; width: 100%; height: 100%; display: block; }
</style>
</head>
<body>
<iframe id="game-frame" src="{{.URL}}" title="{{.Title}}" sandbox="{{.Sandbox}}" allow="{{.Allow}}" allowfullscreen></iframe>
</body>
</html>
`))

// FrameHTML renders the host document for game. The frame URL is passed through
// as-is apart from attribute escaping.
func FrameHTML(game catalog.Game) (string, error) {
	var buf bytes.Buffer
	err := frameTemplate.Execute(&buf, struct {
		Title   string
		URL     template.URL
		Sandbox string
		Allow   string
	}{
		Title:   game.Title,
		URL:     template.URL(game.IframeURL),
		Sandbox: FrameSandbox,
		Allow:   FrameAllow,
	})
	if err != nil {
		return "", fmt.Errorf("render frame: %w", err)
	}
	return buf.String(), nil
}
