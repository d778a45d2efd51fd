package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mobil-koeln/roamly/internal/journey"
)

// renderJourneyStatus renders the status text with a spinner while the
// camera prepares and a progress bar while the vehicle moves.
func (m Model) renderJourneyStatus(width int) string {
	st := m.ctrl.State()
	text := styleStatus.Render(m.scene.status.Text())

	switch st.Phase {
	case journey.Preparing:
		text = m.spinner.View() + " " + text
	case journey.Moving:
		barWidth := width - lipgloss.Width(text) - 3
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth >= 10 {
			p := m.progress
			p.Width = barWidth
			text += "  " + p.ViewAs(st.Progress)
		}
	}

	if m.notice != "" {
		text += "  " + styleError.Render(m.notice)
	}
	return text
}

// renderDetailCard renders the destination card shown after arrival.
func (m Model) renderDetailCard(width int) string {
	d := m.scene.details
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleName.Render(d.Name))
	b.WriteString("  ")
	b.WriteString(kindStyle(d.Kind).Render(d.Kind.Label()))
	if d.Date != "" {
		b.WriteString("\n")
		b.WriteString(styleDate.Render(d.Date))
	}
	if d.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 4).Render(d.Description))
	}
	if d.ImageURL != "" {
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("image: " + d.ImageURL))
	}
	if d.VideoURL != "" {
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("video: " + d.VideoURL))
	}
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("esc: close"))

	return styleCard.Width(width - 2).Render(b.String())
}
