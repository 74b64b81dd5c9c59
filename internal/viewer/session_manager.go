package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nexus/internal/catalog"
	"nexus/internal/config"
	"nexus/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

type sessionRecord struct {
	meta    Session
	page    *rod.Page
	context *rod.Browser
}

// SessionManager owns the Chrome instance that hosts game frames. The browser is
// launched (or attached via DebuggerURL) on the first Open and reused afterwards.
type SessionManager struct {
	cfg config.ViewerConfig

	mu         sync.Mutex
	browser    *rod.Browser
	launch     *launcher.Launcher
	controlURL string
	current    *sessionRecord
}

// NewSessionManager creates a session manager. Nothing is launched until Open.
func NewSessionManager(cfg config.ViewerConfig) *SessionManager {
	return &SessionManager{cfg: cfg}
}

func (m *SessionManager) windowSize() (int, int) {
	w, h := m.cfg.WindowWidth, m.cfg.WindowHeight
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 800
	}
	return w, h
}

// start connects to an existing Chrome or launches a new one. Caller holds mu.
func (m *SessionManager) startLocked(ctx context.Context) error {
	log := logging.Get(logging.CategoryViewer)

	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		log.Warn("Stale browser connection detected, reconnecting...")
		m.closeBrowserLocked()
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		w, h := m.windowSize()
		l := launcher.New().
			Headless(m.cfg.Headless).
			Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", w, h)).
			Set(flags.Flag("autoplay-policy"), "no-user-gesture-required")
		if m.cfg.Bin != "" {
			l = l.Bin(m.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		m.launch = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(context.WithoutCancel(ctx))
	if err := browser.Connect(); err != nil {
		if m.launch != nil {
			m.launch.Kill()
			m.launch = nil
		}
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = browser
	m.controlURL = controlURL
	log.Info("Browser connected: %s", controlURL)
	return nil
}

// ControlURL returns the WebSocket debugger URL.
func (m *SessionManager) ControlURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *SessionManager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Current returns the open session, if any.
func (m *SessionManager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return m.current.meta, true
}

// Open shows game in a fresh incognito page, closing the previous one.
func (m *SessionManager) Open(ctx context.Context, game catalog.Game) (*Session, error) {
	doc, err := FrameHTML(game)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.startLocked(ctx); err != nil {
		return nil, err
	}
	m.closeCurrentLocked()

	incognito, err := m.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = proto.TargetDisposeBrowserContext{BrowserContextID: incognito.BrowserContextID}.Call(m.browser)
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := page.SetDocumentContent(doc); err != nil {
		_ = page.Close()
		_ = proto.TargetDisposeBrowserContext{BrowserContextID: incognito.BrowserContextID}.Call(m.browser)
		return nil, fmt.Errorf("load frame: %w", err)
	}

	log := logging.Get(logging.CategoryViewer)
	if err := page.Context(ctx).Timeout(m.cfg.NavigationTimeout()).WaitLoad(); err != nil {
		log.Debug("Frame host did not finish loading: %v", err)
	}
	if _, err := page.Activate(); err != nil {
		log.Debug("Could not activate page: %v", err)
	}

	meta := Session{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		Title:     game.Title,
		URL:       game.IframeURL,
		TargetID:  string(page.TargetID),
		CreatedAt: time.Now(),
	}
	m.current = &sessionRecord{meta: meta, page: page, context: incognito}

	log.With("session", meta.ID, "game", game.ID).Info("Opened game %q", game.Title)
	return &meta, nil
}

// ToggleFullscreen flips the window between fullscreen and normal. Without an
// open session, in headless mode, or when the browser refuses, it does nothing.
func (m *SessionManager) ToggleFullscreen(ctx context.Context) error {
	log := logging.Get(logging.CategoryViewer)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		log.Debug("Fullscreen ignored: no open session")
		return nil
	}
	if m.cfg.Headless {
		log.Debug("Fullscreen ignored: headless browser")
		return nil
	}

	page := m.current.page.Context(ctx)
	bounds, err := page.GetWindow()
	if err != nil {
		log.Debug("Fullscreen unsupported: %v", err)
		return nil
	}
	next := proto.BrowserWindowStateFullscreen
	if bounds.WindowState == proto.BrowserWindowStateFullscreen {
		next = proto.BrowserWindowStateNormal
	}
	if err := page.SetWindow(&proto.BrowserBounds{WindowState: next}); err != nil {
		log.Debug("Fullscreen unsupported: %v", err)
		return nil
	}
	m.current.meta.Fullscreen = next == proto.BrowserWindowStateFullscreen
	return nil
}

// Close closes the open game page. The browser stays up for the next Open.
func (m *SessionManager) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCurrentLocked()
	return nil
}

// Shutdown closes the open page and the browser.
func (m *SessionManager) Shutdown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeCurrentLocked()
	return m.closeBrowserLocked()
}

func (m *SessionManager) closeCurrentLocked() {
	if m.current == nil {
		return
	}
	rec := m.current
	m.current = nil

	if rec.page != nil {
		_ = rec.page.Close()
	}
	if rec.context != nil && m.browser != nil {
		_ = proto.TargetDisposeBrowserContext{BrowserContextID: rec.context.BrowserContextID}.Call(m.browser)
	}
	logging.Get(logging.CategoryViewer).Debug("Closed session %s", rec.meta.ID)
}

func (m *SessionManager) closeBrowserLocked() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launch != nil {
		m.launch.Kill()
		m.launch.Cleanup()
		m.launch = nil
	}
	m.controlURL = ""
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
