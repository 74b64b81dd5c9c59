package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initDebug(t *testing.T, cats map[string]bool) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(Options{DebugMode: true, Level: "debug", Dir: dir, Categories: cats}))
	t.Cleanup(func() {
		CloseAudit()
		CloseAll()
		_ = Initialize(Options{})
	})
	return dir
}

func logPath(dir string, cat Category) string {
	return filepath.Join(dir, time.Now().Format("2006-01-02")+"_"+string(cat)+".log")
}

func TestGet_DisabledIsNoop(t *testing.T) {
	require.NoError(t, Initialize(Options{}))

	l := Get(CategoryCatalog)
	require.NotNil(t, l)
	assert.Nil(t, l.sugar)
	assert.NotPanics(t, func() {
		l.Info("nothing %d", 1)
		l.With("k", "v").Error("still nothing")
	})
	assert.False(t, IsDebugMode())
	assert.False(t, IsCategoryEnabled(CategoryCatalog))

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Warn("nil receiver") })
}

func TestInitialize_DebugRequiresDir(t *testing.T) {
	err := Initialize(Options{DebugMode: true})
	require.Error(t, err)
	require.NoError(t, Initialize(Options{}))
}

func TestInitialize_BadLevel(t *testing.T) {
	err := Initialize(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestAllCategoriesLog(t *testing.T) {
	dir := initDebug(t, nil)

	for _, cat := range []Category{CategoryCatalog, CategoryViewer, CategoryUI} {
		Get(cat).Info("hello from %s", cat)
	}
	CloseAll()

	for _, cat := range []Category{CategoryBoot, CategoryCatalog, CategoryViewer, CategoryUI} {
		data, err := os.ReadFile(logPath(dir, cat))
		require.NoError(t, err, "category %s should have a log file", cat)
		assert.NotEmpty(t, data)
	}
	data, err := os.ReadFile(logPath(dir, CategoryViewer))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from viewer")
}

func TestCategoryToggle(t *testing.T) {
	dir := initDebug(t, map[string]bool{"viewer": false})

	assert.True(t, IsCategoryEnabled(CategoryCatalog))
	assert.False(t, IsCategoryEnabled(CategoryViewer))

	Get(CategoryViewer).Info("should not appear")
	_, err := os.Stat(logPath(dir, CategoryViewer))
	assert.True(t, os.IsNotExist(err))
}

func TestGet_ReturnsSameLogger(t *testing.T) {
	initDebug(t, nil)
	assert.Same(t, Get(CategoryUI), Get(CategoryUI))
}

func TestWith_AddsFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(Options{DebugMode: true, Dir: dir, JSONFormat: true}))
	t.Cleanup(func() { CloseAll(); _ = Initialize(Options{}) })

	Get(CategoryUI).With("game", "a").Info("opened")
	CloseAll()

	data, err := os.ReadFile(logPath(dir, CategoryUI))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"game":"a"`)
	assert.Contains(t, string(data), `"msg":"opened"`)
}

func TestAudit_WritesJSONLines(t *testing.T) {
	dir := initDebug(t, nil)
	require.NoError(t, InitAudit())

	Audit().CatalogLoaded("games.json", 3, 12, nil)
	AuditWithSession("s-1").GameOpened("a")
	AuditWithSession("s-1").ViewerError("a", errors.New("no browser"))
	CloseAudit()

	f, err := os.Open(filepath.Join(dir, time.Now().Format("2006-01-02")+"_audit.log"))
	require.NoError(t, err)
	defer f.Close()

	var events []AuditEvent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev AuditEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 3)
	assert.Equal(t, AuditCatalogLoad, events[0].EventType)
	assert.True(t, events[0].Success)
	assert.Equal(t, "s-1", events[1].SessionID)
	assert.Equal(t, "a", events[1].Target)
	assert.False(t, events[2].Success)
	assert.True(t, strings.Contains(events[2].Error, "no browser"))
}

func TestAudit_NoopWithoutInit(t *testing.T) {
	require.NoError(t, Initialize(Options{}))
	require.NoError(t, InitAudit())
	assert.NotPanics(t, func() { Audit().FiltersReset() })
}
