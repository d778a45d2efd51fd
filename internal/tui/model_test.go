package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/internal/testutil"
)

func TestNew(t *testing.T) {
	m := New(repository.NewMemoryStore(nil))

	testutil.AssertEqual(t, m.focus, focusList)
	testutil.AssertTrue(t, m.loading)
	testutil.AssertTrue(t, m.Init() != nil)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)
}

func TestModel_Loaded(t *testing.T) {
	m, _ := newTestModel(t)

	testutil.AssertFalse(t, m.loading)
	testutil.AssertLen(t, m.items(), 3)
	testutil.AssertLen(t, m.scene.markers, 3)
	testutil.AssertEqual(t, m.scene.status.Kind, journey.StatusIdle)
}

func TestModel_LoadError(t *testing.T) {
	m := New(repository.NewMemoryStore(nil))
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = send(t, m, loadedMsg{err: errors.New("source unreachable")})

	testutil.AssertFalse(t, m.loading)
	testutil.AssertContains(t, m.View(), "source unreachable")
}

func TestModel_Navigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "k")
	testutil.AssertEqual(t, m.cursor, 0)

	m = press(t, m, "j", "j", "j", "j")
	testutil.AssertEqual(t, m.cursor, 2)

	m = press(t, m, "g")
	testutil.AssertEqual(t, m.cursor, 0)

	m = press(t, m, "G")
	testutil.AssertEqual(t, m.cursor, 2)
}

func TestModel_FullJourney(t *testing.T) {
	m, clk := newTestModel(t)

	m = press(t, m, "enter")
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Preparing)
	testutil.AssertTrue(t, m.scene.moving)
	testutil.AssertLen(t, m.scene.markers, 1)
	testutil.AssertContains(t, m.View(), "Preparing route: Malta")

	// camera fit plus settle delay
	m = advance(t, m, clk, 1400*time.Millisecond+time.Millisecond)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Moving)
	testutil.AssertFalse(t, m.scene.moving)
	testutil.AssertContains(t, m.View(), "Flying to: Malta")

	m = advance(t, m, clk, time.Second)
	testutil.AssertTrue(t, len(m.scene.trail) > 0)
	testutil.AssertTrue(t, m.scene.vehicle != nil)

	m = advance(t, m, clk, 2*time.Second)
	testutil.AssertTrue(t, m.scene.landed)

	m = advance(t, m, clk, 2*time.Second)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Details)
	testutil.AssertTrue(t, m.scene.DetailsVisible())

	view := m.View()
	testutil.AssertContains(t, view, "Arrived at: Malta")
	testutil.AssertContains(t, view, "Limestone cliffs")
	testutil.AssertContains(t, view, "esc: close")

	m = press(t, m, "esc")
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)
	testutil.AssertFalse(t, m.scene.DetailsVisible())
	testutil.AssertFalse(t, m.scene.route)
	testutil.AssertLen(t, m.scene.markers, 3)
	testutil.AssertEqual(t, m.scene.status.Kind, journey.StatusIdle)
}

func TestModel_SelectWhileActive(t *testing.T) {
	m, clk := newTestModel(t)

	m = press(t, m, "enter")
	m = advance(t, m, clk, 2*time.Second)
	m = press(t, m, "j", "enter")

	testutil.AssertEqual(t, m.ctrl.CurrentDestination().Name, "Malta")
	testutil.AssertContains(t, m.notice, "journey is in progress")
	testutil.AssertContains(t, m.renderJourneyStatus(200), "Flying to: Malta")
}

func TestModel_ResetKey(t *testing.T) {
	m, clk := newTestModel(t)

	m = press(t, m, "enter")
	m = advance(t, m, clk, 2*time.Second)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Moving)

	m = press(t, m, "r")
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)
	testutil.AssertFalse(t, m.scene.route)
	testutil.AssertTrue(t, m.scene.vehicle == nil)

	// nothing left over from the abandoned journey
	m = advance(t, m, clk, 10*time.Second)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)
	testutil.AssertFalse(t, m.scene.DetailsVisible())
	testutil.AssertEqual(t, m.sched.Pending(), 0)

	// a new journey can start right away
	m = press(t, m, "j", "enter")
	testutil.AssertEqual(t, m.ctrl.CurrentDestination().Name, "Kraków")
}

func TestModel_EscCancelsDuringPreparing(t *testing.T) {
	m, clk := newTestModel(t)

	m = press(t, m, "enter", "esc")
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)

	m = advance(t, m, clk, 5*time.Second)
	testutil.AssertEqual(t, m.ctrl.State().Phase, journey.Idle)
}

func TestModel_Filters(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "tab")
	testutil.AssertEqual(t, m.focus, focusFilters)
	testutil.AssertLen(t, m.chips(), 5)

	// 2022, 2023, Plane, Train, Car
	m = press(t, m, "l", "l", " ")
	testutil.AssertTrue(t, m.app.Panel().KindActive("plane"))
	testutil.AssertLen(t, m.items(), 1)
	testutil.AssertLen(t, m.scene.markers, 1)

	m = press(t, m, "h", "h", " ")
	testutil.AssertTrue(t, m.app.Panel().YearActive("2022"))
	testutil.AssertLen(t, m.items(), 0)

	m = press(t, m, "a")
	testutil.AssertLen(t, m.items(), 3)
	testutil.AssertLen(t, m.scene.markers, 3)

	m = press(t, m, "esc")
	testutil.AssertEqual(t, m.focus, focusList)
}

func TestModel_FilterDuringJourneyKeepsMarkers(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "enter", "tab", "l", "l", "l", " ")
	testutil.AssertTrue(t, m.app.Panel().KindActive("train"))
	testutil.AssertLen(t, m.items(), 1)
	testutil.AssertLen(t, m.scene.markers, 1)
	testutil.AssertEqual(t, m.scene.markers[0].Name, "Malta")
}

func TestModel_FilterClampsCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "G")
	testutil.AssertEqual(t, m.cursor, 2)

	m = press(t, m, "tab", "l", "l", " ")
	testutil.AssertEqual(t, m.cursor, 0)
}

func TestModel_Search(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/")
	testutil.AssertEqual(t, m.focus, focusSearch)

	m = press(t, m, "k", "r", "a")
	testutil.AssertEqual(t, m.searchInput.Value(), "kra")
	testutil.AssertLen(t, m.items(), 1)
	testutil.AssertEqual(t, m.items()[0].Name, "Kraków")

	m = press(t, m, "enter")
	testutil.AssertEqual(t, m.focus, focusList)
	m = press(t, m, "enter")
	testutil.AssertEqual(t, m.ctrl.CurrentDestination().Name, "Kraków")

	m = press(t, m, "/", "esc")
	testutil.AssertEqual(t, m.searchInput.Value(), "")
	testutil.AssertLen(t, m.items(), 3)
}

func TestModel_Collapse(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "c")
	testutil.AssertTrue(t, m.app.Panel().Collapsed())
	testutil.AssertContains(t, m.renderFilterBar(), "Filters hidden")

	// the hidden bar cannot take focus
	m = press(t, m, "tab")
	testutil.AssertEqual(t, m.focus, focusList)

	m = press(t, m, "c", "tab")
	testutil.AssertEqual(t, m.focus, focusFilters)
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t)
			next, cmd := m.update(key(k))
			m = next.(Model)

			testutil.AssertTrue(t, cmd != nil)
			_, ok := cmd().(tea.QuitMsg)
			testutil.AssertTrue(t, ok)
			testutil.AssertFalse(t, m.ctrl.Select(testutil.Malta()))
		})
	}
}

func TestSearchDestinations(t *testing.T) {
	ds := testutil.SampleDestinations()
	testutil.AssertLen(t, searchDestinations(ds, ""), 3)
	testutil.AssertLen(t, searchDestinations(ds, "  "), 3)
	testutil.AssertLen(t, searchDestinations(ds, "GDA"), 1)
	testutil.AssertLen(t, searchDestinations(ds, "xyz"), 0)
}
