package main

import (
	"context"
	"fmt"

	"nexus/cmd/nexus/tui"
	"nexus/cmd/nexus/ui"
	"nexus/internal/catalog"
	"nexus/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// runInteractive starts the terminal browser.
func runInteractive(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := catalog.NewSource(cfg.Catalog.Source)
	m := tui.New(tui.Options{
		Store:       catalog.NewStore(src),
		Viewer:      newViewer(cfg),
		Styles:      ui.NewStyles(ui.DetectTheme(cfg.UI.Theme)),
		LoadTimeout: cfg.Catalog.GetTimeout(),
		WatchPath:   watchPath(cfg, src),
	})
	defer m.Shutdown()

	var opts []tea.ProgramOption
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	logging.Get(logging.CategoryBoot).Info("Starting interactive browser")
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
