package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/roamly/internal/app"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/repository"
)

type focusPanel int

const (
	focusList focusPanel = iota
	focusFilters
	focusSearch
)

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	repo  repository.Repository
	app   *app.App
	ctrl  *journey.Controller
	scene *Scene
	sched *Scheduler

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	focus       focusPanel

	cursor       int
	filterCursor int

	loading bool
	loadErr error
	// notice is a one-line message shown in the status area until the next key
	notice string
}

type config struct {
	logger   *slog.Logger
	observer journey.Observer
	options  journey.Options
}

// Option configures the TUI
type Option func(*config)

// WithLogger sets the logger shared by the controller and the app
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver receives journey events, e.g. metrics or telemetry
func WithObserver(o journey.Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithJourneyOptions overrides the journey timings
func WithJourneyOptions(o journey.Options) Option {
	return func(c *config) { c.options = o }
}

// New creates a new TUI model backed by repo.
func New(repo repository.Repository, opts ...Option) Model {
	cfg := config{
		logger:   slog.New(slog.DiscardHandler),
		observer: journey.NopObserver{},
		options:  journey.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sched := NewScheduler()
	scene := NewScene(sched)
	ctrl := journey.NewController(sched, scene, scene,
		journey.WithLogger(cfg.logger),
		journey.WithObserver(cfg.observer),
		journey.WithOptions(cfg.options))

	ti := textinput.New()
	ti.Placeholder = "Search destination..."
	ti.CharLimit = 60
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleActive

	return Model{
		repo:        repo,
		app:         app.New(repo, ctrl, scene, scene, app.WithLogger(cfg.logger)),
		ctrl:        ctrl,
		scene:       scene,
		sched:       sched,
		searchInput: ti,
		spinner:     sp,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focus:       focusList,
		loading:     true,
	}
}

// Init starts loading destinations.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadDestinations(m.repo), m.spinner.Tick)
}

// items returns the visible destinations matching the search query
func (m Model) items() []models.Destination {
	return searchDestinations(m.app.Visible(), m.searchInput.Value())
}

// selected returns the destination under the cursor
func (m Model) selected() (models.Destination, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return models.Destination{}, false
	}
	return items[m.cursor], true
}

// clampCursor keeps the cursor inside the list after it shrinks
func (m Model) clampCursor() Model {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}
