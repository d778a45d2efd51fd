package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mobil-koeln/roamly/internal/models"
)

// searchDestinations keeps destinations whose name contains query, ignoring case
func searchDestinations(ds []models.Destination, query string) []models.Destination {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ds
	}
	var out []models.Destination
	for _, d := range ds {
		if strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, d)
		}
	}
	return out
}

// renderDestinationList renders the left destination panel.
func (m Model) renderDestinationList(width, height int) string {
	items := m.items()
	title := styleHeader.Render(fmt.Sprintf("DESTINATIONS (%d)", len(items)))

	if m.loading {
		return title + "\n" + m.spinner.View() + styleMuted.Render(" Loading destinations...")
	}
	if m.loadErr != nil {
		return title + "\n" + styleError.Render(" Error: "+m.loadErr.Error())
	}
	if len(items) == 0 {
		return title + "\n" + styleMuted.Render(" No destinations match")
	}

	contentWidth := width - 2

	// two lines per destination
	maxVisible := (height - 1) / 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(m.cursor, len(items), maxVisible)

	var lines []string
	for i := start; i < end; i++ {
		d := items[i]
		name := truncate(d.Name, contentWidth-8)
		kind := kindStyle(d.Kind).Render(fmt.Sprintf("%-5s", d.Kind))
		if i == m.cursor {
			lines = append(lines, styleSelected.Render(" > "+name)+" "+kind)
		} else {
			lines = append(lines, "   "+styleName.Render(name)+" "+kind)
		}
		lines = append(lines, "     "+styleDate.Render(truncate(d.Date, contentWidth-6)))
	}

	scrollbar := renderScrollbar(m.cursor, len(items), len(lines))
	scrollbarLines := strings.Split(scrollbar, "\n")

	var b strings.Builder
	for i, line := range lines {
		if w := lipgloss.Width(line); w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		b.WriteString(line)
		if i < len(scrollbarLines) && scrollbarLines[i] != "" {
			b.WriteString(" ")
			b.WriteString(scrollbarLines[i])
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return title + "\n" + b.String()
}

// renderScrollbar draws a one-column scrollbar, or empty lines when every
// item fits
func renderScrollbar(cursor, total, height int) string {
	if height < 1 {
		return ""
	}
	lines := make([]string, height)
	if total*2 <= height || total <= 1 {
		return strings.Join(lines, "\n")
	}
	thumb := cursor * (height - 1) / (total - 1)
	for i := range lines {
		if i == thumb {
			lines[i] = styleActive.Render("┃")
		} else {
			lines[i] = styleMuted.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}

// handleListKeys handles key events when the destination list is focused.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.items()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "home", "g":
		m.cursor = 0
		return m, nil

	case "end", "G":
		if len(items) > 0 {
			m.cursor = len(items) - 1
		}
		return m, nil

	case "enter", " ":
		d, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.ctrl.Select(d) {
			m.notice = "A journey is in progress. Press r to cancel it."
		}
		return m, nil

	case "esc":
		if m.scene.DetailsVisible() {
			m.app.Close()
			return m.clampCursor(), nil
		}
		if m.ctrl.State().Active() {
			m.app.Reset()
		}
		return m, nil

	case "r":
		m.app.Reset()
		return m, nil

	case "c":
		m.app.Panel().ToggleCollapsed()
		return m, nil

	case "tab":
		if !m.app.Panel().Collapsed() {
			m.focus = focusFilters
		}
		return m, nil

	case "/":
		m.focus = focusSearch
		return m, m.searchInput.Focus()

	case "q":
		return m.quit()
	}

	return m, nil
}
