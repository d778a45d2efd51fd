package tui

import "github.com/mobil-koeln/roamly/internal/models"

// loadedMsg carries the destinations loaded at startup
type loadedMsg struct {
	destinations []models.Destination
	err          error
}
