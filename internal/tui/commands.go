package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/roamly/internal/repository"
)

const loadTimeout = 15 * time.Second

// loadDestinations returns a tea.Cmd that loads the destination set off the
// update loop. The result is applied to the scene in Update.
func loadDestinations(repo repository.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		ds, err := repo.Load(ctx)
		return loadedMsg{destinations: ds, err: err}
	}
}
