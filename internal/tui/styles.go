package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
)

// Colors matching output/colors.go
var (
	colorCyan   = lipgloss.Color("6")
	colorYellow = lipgloss.Color("3")
	colorRed    = lipgloss.Color("1")
	colorGreen  = lipgloss.Color("2")
	colorWhite  = lipgloss.Color("15")
	colorGray   = lipgloss.Color("8")
)

// Text styles
var (
	styleName   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleDate   = lipgloss.NewStyle().Foreground(colorYellow)
	styleMuted  = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleActive = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleStatus = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// Panel border styles
var (
	stylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan)

	stylePanelNormal = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)

// Selected item in a list
var styleSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// Focused chip cursor in the filter bar
var styleChipCursor = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorCyan).
	Bold(true)

// Status bar at the bottom
var styleStatusBar = lipgloss.NewStyle().
	Foreground(colorGray).
	Background(lipgloss.Color("0"))

// Detail card shown after arrival
var styleCard = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorYellow).
	Padding(0, 1)

var styleError = lipgloss.NewStyle().Foreground(colorRed)

var styleLogo = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// kindStyle colors a label with the vehicle's trail color
func kindStyle(k models.VehicleKind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(journey.StyleFor(k).Color)).Bold(true)
}
