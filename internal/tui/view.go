package tui

import "github.com/charmbracelet/lipgloss"

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := renderHeader()
	searchBar := m.renderSearchBar()
	filterBar := m.renderFilterBar()
	status := m.renderJourneyStatus(m.width)
	statusBar := m.renderStatusBar()

	used := lipgloss.Height(header) + lipgloss.Height(searchBar) + lipgloss.Height(filterBar) +
		lipgloss.Height(status) + lipgloss.Height(statusBar)
	panelHeight := m.height - used
	if panelHeight < 5 {
		panelHeight = 5
	}

	// Panel widths: ~30% left, ~70% right
	leftWidth := m.width*30/100 - 2
	if leftWidth < 24 {
		leftWidth = 24
	}
	rightWidth := m.width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftBorder := stylePanelNormal
	if m.focus == focusList {
		leftBorder = stylePanelFocused
	}
	leftPanel := leftBorder.
		Width(leftWidth).
		Height(panelHeight - 2).
		Render(m.renderDestinationList(leftWidth, panelHeight-2))

	rightPanel := stylePanelNormal.
		Width(rightWidth).
		Height(panelHeight - 2).
		Render(m.renderMapPanel(rightWidth, panelHeight-2))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, searchBar, filterBar, panels, " "+status, statusBar)
}

// renderHeader renders the brand line.
func renderHeader() string {
	return styleLogo.Render(" ✈ roamly") + styleMuted.Render("  journeys on a map")
}

// renderSearchBar renders the search input.
func (m Model) renderSearchBar() string {
	border := stylePanelNormal
	if m.focus == focusSearch {
		border = stylePanelFocused
	}
	return border.Width(m.width - 2).Render(styleHeader.Render("Search: ") + m.searchInput.View())
}

// renderMapPanel renders the map with the detail card below it when visible.
func (m Model) renderMapPanel(width, height int) string {
	selectedID := 0
	if d := m.ctrl.CurrentDestination(); d != nil {
		selectedID = d.ID
	}

	card := m.renderDetailCard(width)
	mapHeight := height
	if card != "" {
		mapHeight = height - lipgloss.Height(card)
		if mapHeight < 3 {
			return card
		}
	}

	view := renderRouteMap(m.scene, selectedID, width, mapHeight)
	if card == "" {
		return view
	}
	return view + "\n" + card
}

// renderStatusBar renders context-aware keyboard hints at the bottom.
func (m Model) renderStatusBar() string {
	var hints string
	switch m.focus {
	case focusSearch:
		hints = "Type to filter  Enter:done  Esc:clear  Ctrl+C:quit"
	case focusFilters:
		hints = "h/l:move  Space:toggle  a:all  c:hide  Tab/Esc:list  q:quit"
	default:
		switch {
		case m.scene.DetailsVisible():
			hints = "Esc:close  r:reset  j/k:navigate  Tab:filters  /:search  q:quit"
		case m.ctrl.State().Active():
			hints = "r/Esc:cancel journey  j/k:navigate  q:quit"
		default:
			hints = "j/k:navigate  Enter:travel  Tab:filters  /:search  c:filters on/off  q:quit"
		}
	}

	return styleStatusBar.Width(m.width).Render(" " + hints)
}

// visibleRange calculates the start and end indices for a scrollable list.
func visibleRange(cursor, total, maxVisible int) (int, int) {
	if total <= maxVisible {
		return 0, total
	}

	start := cursor - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > total {
		end = total
		start = end - maxVisible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// truncate truncates a string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
