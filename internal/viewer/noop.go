package viewer

import (
	"context"
	"sync"
	"time"

	"nexus/internal/catalog"

	"github.com/google/uuid"
)

// Noop records sessions without showing anything. It is used when the viewer is
// disabled and in tests.
type Noop struct {
	mu      sync.Mutex
	current *Session
	opened  int
}

func (n *Noop) Open(_ context.Context, game catalog.Game) (*Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Session{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		Title:     game.Title,
		URL:       game.IframeURL,
		CreatedAt: time.Now(),
	}
	n.opened++
	s := *n.current
	return &s, nil
}

func (n *Noop) ToggleFullscreen(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil {
		n.current.Fullscreen = !n.current.Fullscreen
	}
	return nil
}

func (n *Noop) Close(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
	return nil
}

func (n *Noop) Shutdown(ctx context.Context) error {
	return n.Close(ctx)
}

// Current returns the open session, if any.
func (n *Noop) Current() (Session, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Session{}, false
	}
	return *n.current, true
}

// Opened counts Open calls.
func (n *Noop) Opened() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.opened
}
