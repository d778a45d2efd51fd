package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mobil-koeln/roamly/internal/models"
)

// chip is one toggle in the filter bar: a year or a vehicle kind
type chip struct {
	label string
	year  string
	kind  models.VehicleKind
}

// chips lists the year chips followed by the vehicle kind chips
func (m Model) chips() []chip {
	panel := m.app.Panel()
	var out []chip
	for _, y := range panel.Years() {
		out = append(out, chip{label: y, year: y})
	}
	for _, k := range panel.Kinds() {
		out = append(out, chip{label: k.Label(), kind: k})
	}
	return out
}

func (m Model) chipActive(c chip) bool {
	if c.year != "" {
		return m.app.Panel().YearActive(c.year)
	}
	return m.app.Panel().KindActive(c.kind)
}

// renderFilterBar renders two bordered boxes side by side: years on the
// left, vehicle kinds on the right.
func (m Model) renderFilterBar() string {
	if m.app.Panel().Collapsed() {
		return styleMuted.Render("  Filters hidden (c to show)")
	}

	var years, kinds []string
	for i, c := range m.chips() {
		focused := m.focus == focusFilters && m.filterCursor == i
		rendered := m.renderChip(c.label, m.chipActive(c), focused)
		if c.year != "" {
			years = append(years, rendered)
		} else {
			kinds = append(kinds, rendered)
		}
	}

	border := stylePanelNormal
	if m.focus == focusFilters {
		border = stylePanelFocused
	}

	yearContent := strings.Join(years, " ")
	if len(years) == 0 {
		yearContent = styleMuted.Render("no years")
	}
	yearBox := border.Render(styleMuted.Render("Year ") + yearContent)
	kindBox := border.Render(styleMuted.Render("Vehicle ") + strings.Join(kinds, " "))

	return lipgloss.JoinHorizontal(lipgloss.Top, yearBox, kindBox)
}

// renderChip renders a single chip with cursor highlighting.
func (m Model) renderChip(label string, active bool, focused bool) string {
	if focused {
		if active {
			return styleChipCursor.Render("[" + label + "]")
		}
		return styleChipCursor.Render(" " + label + " ")
	}
	if active {
		return styleActive.Render("[" + label + "]")
	}
	return styleMuted.Render(" " + label + " ")
}

// handleFilterKeys handles key events when the filter bar is focused.
func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chips := m.chips()

	switch msg.String() {
	case "h", "left":
		if m.filterCursor > 0 {
			m.filterCursor--
		}
		return m, nil

	case "l", "right":
		if m.filterCursor < len(chips)-1 {
			m.filterCursor++
		}
		return m, nil

	case " ", "enter":
		if m.filterCursor >= len(chips) {
			return m, nil
		}
		c := chips[m.filterCursor]
		if c.year != "" {
			m.app.Panel().ToggleYear(c.year)
		} else {
			m.app.Panel().ToggleKind(c.kind)
		}
		return m.clampCursor(), nil

	case "a":
		m.app.Panel().Reset()
		return m.clampCursor(), nil

	case "tab", "esc":
		m.focus = focusList
		return m, nil

	case "c":
		m.app.Panel().ToggleCollapsed()
		m.focus = focusList
		return m, nil

	case "q":
		return m.quit()
	}

	return m, nil
}
