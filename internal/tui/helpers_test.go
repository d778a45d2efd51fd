package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/internal/testutil"
)

type testClock struct {
	now time.Time
}

// newTestModel returns a sized model with the sample destinations loaded
// and a virtual clock driving its scheduler
func newTestModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	m := New(repository.NewMemoryStore(testutil.SampleDestinations()))
	clk := &testClock{now: time.Unix(1_700_000_000, 0)}
	m.sched.now = func() time.Time { return clk.now }

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = send(t, m, loadedMsg{destinations: testutil.SampleDestinations()})
	return m, clk
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, key(k))
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// advance fires due timers in order, as the Bubble Tea runtime would
func advance(t *testing.T, m Model, clk *testClock, d time.Duration) Model {
	t.Helper()
	deadline := clk.now.Add(d)
	for {
		id, due, ok := nextDue(m.sched, deadline)
		if !ok {
			break
		}
		clk.now = due
		m = send(t, m, timerMsg{id: id})
	}
	clk.now = deadline
	return m
}

func nextDue(s *Scheduler, deadline time.Time) (uint64, time.Time, bool) {
	var (
		bestID  uint64
		bestDue time.Time
		found   bool
	)
	for id, task := range s.pending {
		if task.due.After(deadline) {
			continue
		}
		if !found || task.due.Before(bestDue) || (task.due.Equal(bestDue) && id < bestID) {
			bestID, bestDue, found = id, task.due, true
		}
	}
	return bestID, bestDue, found
}
