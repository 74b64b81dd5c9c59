package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType names a user-visible state change worth keeping a trail of.
type AuditEventType string

const (
	AuditCatalogLoad   AuditEventType = "catalog_load"
	AuditCatalogReload AuditEventType = "catalog_reload"
	AuditGameOpen      AuditEventType = "game_open"
	AuditGameClose     AuditEventType = "game_close"
	AuditFiltersReset  AuditEventType = "filters_reset"
	AuditViewerError   AuditEventType = "viewer_error"
)

// AuditEvent is one JSON line in the audit file.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"` // Unix milliseconds
	EventType  AuditEventType         `json:"event"`
	SessionID  string                 `json:"session,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger writes audit events, optionally scoped to a viewer session.
type AuditLogger struct {
	sessionID string
}

// InitAudit opens the audit file. It is a no-op unless debug mode is on.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	optsMu.RLock()
	dir := opts.Dir
	optsMu.RUnlock()

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(dir, fmt.Sprintf("%s_audit.log", date))
	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		_ = auditFile.Close()
		auditFile = nil
	}
}

// Audit returns an unscoped audit logger.
func Audit() *AuditLogger {
	return &AuditLogger{}
}

// AuditWithSession scopes events to a viewer session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = auditFile.Write(append(data, '\n'))
}

// CatalogLoaded records a finished catalog load.
func (a *AuditLogger) CatalogLoaded(location string, count int, durationMs int64, err error) {
	ev := AuditEvent{
		EventType:  AuditCatalogLoad,
		Target:     location,
		Success:    err == nil,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"games": count},
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}

// CatalogReloaded records a watcher-triggered reload.
func (a *AuditLogger) CatalogReloaded(location string, err error) {
	ev := AuditEvent{EventType: AuditCatalogReload, Target: location, Success: err == nil}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}

// GameOpened records a game selection.
func (a *AuditLogger) GameOpened(gameID string) {
	a.Log(AuditEvent{EventType: AuditGameOpen, Target: gameID, Success: true})
}

// GameClosed records leaving the playing view.
func (a *AuditLogger) GameClosed(gameID string, durationMs int64) {
	a.Log(AuditEvent{EventType: AuditGameClose, Target: gameID, Success: true, DurationMs: durationMs})
}

// FiltersReset records a reset to the default query.
func (a *AuditLogger) FiltersReset() {
	a.Log(AuditEvent{EventType: AuditFiltersReset, Success: true})
}

// ViewerError records an embedded viewer failure.
func (a *AuditLogger) ViewerError(gameID string, err error) {
	a.Log(AuditEvent{EventType: AuditViewerError, Target: gameID, Error: err.Error()})
}
