package tui

import (
	"fmt"
	"strings"

	"nexus/cmd/nexus/ui"
	"nexus/internal/catalog"
	"nexus/internal/coordinator"
	"nexus/internal/logging"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) layout() ui.LayoutConfig {
	return ui.NewLayoutConfig(m.width, m.height)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.coord.Mode() == coordinator.Playing {
		b.WriteString(m.renderPlaying())
	} else {
		b.WriteString(m.renderBrowse())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	w := m.layout().ContentWidth()
	left := ui.Logo(m.styles)
	right := m.styles.Muted.Render(m.store.Location())
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 || m.layout().IsCompact {
		return m.styles.Header.Width(w).Render(left)
	}
	return m.styles.Header.Width(w).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderBrowse() string {
	var sections []string

	sections = append(sections, m.styles.SearchBox.Render(m.search.View()))
	sections = append(sections, m.renderTabs())

	if m.loading() {
		sections = append(sections, "\n  "+m.spinner.View()+" "+m.styles.Muted.Render(LoadingText)+"\n")
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	visible := m.coord.Visible()
	featuredOffset := 0
	if m.coord.ShowFeatured() {
		featured := m.coord.Featured()
		featuredOffset = len(featured)
		sections = append(sections, m.renderFeatured(featured))
	}

	heading := m.styles.Title.Render(m.coord.Heading()) + "  " +
		m.styles.Muted.Render(fmt.Sprintf("%d games found", len(visible)))
	sections = append(sections, heading)

	if m.coord.EmptyResult() {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.renderList(visible, m.cursor-featuredOffset))
	}
	return m.styles.Content.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderTabs() string {
	active := m.coord.Query().Category
	tabs := make([]string, 0, len(catalog.Categories()))
	for i, c := range catalog.Categories() {
		label := fmt.Sprintf("%d %s", i+1, c)
		if m.layout().IsCompact {
			label = c.String()
		}
		if c == active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderFeatured(featured []catalog.Game) string {
	var b strings.Builder
	b.WriteString(m.styles.Featured.Render("★ " + FeaturedTitle))
	b.WriteString("\n")
	for i, g := range featured {
		line := g.Title + " " + m.styles.CategoryBadge(g.Category)
		if i == m.cursor {
			b.WriteString(m.styles.CardSelected.Render(line))
		} else {
			b.WriteString(m.styles.Card.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderList draws the windowed result list. cursor is relative to games and is
// negative while the cursor sits in the featured row.
func (m Model) renderList(games []catalog.Game, cursor int) string {
	width := m.layout().ContentWidth()
	q := m.coord.Query()
	capacity := m.layout().ListCapacity(m.coord.ShowFeatured())
	start, end := ui.ScrollWindow(len(games), cursor, m.offset, capacity)

	key := ui.ComputeKey(m.store.Revision(), q.Search, q.Category, cursor, width, start, end, capacity, m.styles.Theme.IsDark)
	return m.cache.GetOrCompute(key, func() string {
		logging.Get(logging.CategoryUI).Debug("Rendering list [%d,%d) of %d", start, end, len(games))
		var b strings.Builder
		for i := start; i < end; i++ {
			b.WriteString(m.renderCard(games[i], i == cursor, width))
			b.WriteString("\n")
		}
		if end < len(games) {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  … %d more", len(games)-end)))
			b.WriteString("\n")
		}
		return b.String()
	})
}

func (m Model) renderCard(g catalog.Game, selected bool, width int) string {
	title := g.Title
	if g.Featured {
		title += " ★"
	}
	line1 := m.styles.Bold.Render(title) + " " + m.styles.CategoryBadge(g.Category)
	line2 := m.styles.Muted.Render(truncate(g.Description, width-6))
	card := line1 + "\n" + line2
	if selected {
		return m.styles.CardSelected.Render(card)
	}
	return m.styles.Card.Render(card)
}

func (m Model) renderEmpty() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.styles.Title.Render(EmptyTitle),
		m.styles.Muted.Render(EmptyHint),
		m.styles.Info.Render(EmptyResetHint),
		"",
	)
}

func (m Model) renderPlaying() string {
	g, _ := m.coord.Selected()

	title := m.styles.Title.Render(g.Title) + "  " + m.styles.CategoryBadge(g.Category)

	status := m.viewerStatus()
	statusStyle := m.styles.Success
	if m.viewerErr != nil {
		statusStyle = m.styles.Warning
	} else if m.session == nil {
		statusStyle = m.styles.Muted
	}

	return m.styles.Content.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		statusStyle.Render(status),
		m.styles.Muted.Render(g.IframeURL),
		"",
		m.styles.Pane.Width(m.pane.Width).Render(m.pane.View()),
	))
}

// howToPlay is the markdown shown in the playing pane.
func (m Model) howToPlay(g catalog.Game) string {
	md := "## How to play\n\n" + g.Description + "\n\n" + HelpText + "\n"
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		logging.Get(logging.CategoryUI).Debug("Markdown render failed: %v", err)
		return md
	}
	return out
}

func (m Model) renderFooter() string {
	var keys helpKeys
	switch {
	case m.coord.Mode() == coordinator.Playing:
		keys = m.keys.playHelp()
	case m.focus == focusSearch:
		keys = m.keys.searchHelp()
	default:
		keys = m.keys.browseHelp()
	}
	footer := m.help.View(keys)
	if m.statusMsg != "" {
		footer = m.styles.Info.Render(m.statusMsg) + "  " + footer
	}
	return m.styles.Footer.Render(footer)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
