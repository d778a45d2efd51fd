// Package app wires the destination store, filter panel and journey
// controller together behind the operations a front end needs.
//
// App is not safe for concurrent use; call it from the same logical thread
// that drives the controller's scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mobil-koeln/roamly/internal/filter"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/repository"
)

// ErrAlreadyInitialized is returned by a second Initialize or Ready call
var ErrAlreadyInitialized = errors.New("app: already initialized")

// ErrNotInitialized is returned by operations that need loaded data
var ErrNotInitialized = errors.New("app: not initialized")

// App coordinates a map session
type App struct {
	repo   repository.Repository
	ctrl   *journey.Controller
	view   journey.ViewPort
	pres   journey.Presentation
	panel  *filter.Panel
	logger *slog.Logger

	initialized bool
	visible     []models.Destination
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPanel uses an existing filter panel
func WithPanel(p *filter.Panel) Option {
	return func(a *App) {
		if p != nil {
			a.panel = p
		}
	}
}

// New creates an App. view and pres must be the same collaborators the
// controller was built with.
func New(repo repository.Repository, ctrl *journey.Controller, view journey.ViewPort, pres journey.Presentation, opts ...Option) *App {
	a := &App{
		repo:   repo,
		ctrl:   ctrl,
		view:   view,
		pres:   pres,
		panel:  filter.NewPanel(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize loads the destinations and shows them
func (a *App) Initialize(ctx context.Context) error {
	if a.initialized {
		return ErrAlreadyInitialized
	}
	ds, err := a.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: load destinations: %w", err)
	}
	return a.Ready(ds)
}

// Ready shows destinations that were loaded elsewhere
func (a *App) Ready(ds []models.Destination) error {
	if a.initialized {
		return ErrAlreadyInitialized
	}
	a.initialized = true

	a.panel.SetDestinations(ds)
	a.panel.OnChange(a.handleFilterChange)
	a.visible = a.panel.Filtered()
	a.ctrl.SetDestinations(a.visible)

	a.try("update markers", func() error { return a.view.UpdateMarkers(a.visible) })
	a.try("fit to all", func() error { return a.view.FitToAll(a.visible, journey.OverviewZoom) })
	a.try("set status", func() error { return a.pres.SetStatus(journey.IdleStatus) })

	a.logger.Info("map ready", "destinations", len(ds))
	return nil
}

// Select starts a journey to the destination with id. It reports false when
// another journey is in flight.
func (a *App) Select(ctx context.Context, id int) (bool, error) {
	if !a.initialized {
		return false, ErrNotInitialized
	}
	d, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return a.ctrl.Select(d), nil
}

// Close dismisses the detail card
func (a *App) Close() bool {
	return a.ctrl.Close()
}

// Reset abandons the journey in flight
func (a *App) Reset() {
	a.ctrl.Reset()
}

// Panel returns the filter panel
func (a *App) Panel() *filter.Panel {
	return a.panel
}

// Controller returns the journey controller
func (a *App) Controller() *journey.Controller {
	return a.ctrl
}

// Visible returns the destinations passing the current filters
func (a *App) Visible() []models.Destination {
	return append([]models.Destination(nil), a.visible...)
}

// AddDestination stores d and shows it if it passes the filters
func (a *App) AddDestination(ctx context.Context, d models.Destination) error {
	if err := a.repo.Add(ctx, d); err != nil {
		return err
	}
	return a.refresh(ctx)
}

// RemoveDestination deletes a destination, abandoning its journey if one
// is in flight
func (a *App) RemoveDestination(ctx context.Context, id int) (bool, error) {
	if cur := a.ctrl.CurrentDestination(); cur != nil && cur.ID == id {
		a.ctrl.Reset()
	}
	removed, err := a.repo.Remove(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	return true, a.refresh(ctx)
}

// UpdateDestination applies a partial update
func (a *App) UpdateDestination(ctx context.Context, id int, p repository.Patch) (models.Destination, error) {
	d, err := a.repo.Update(ctx, id, p)
	if err != nil {
		return models.Destination{}, err
	}
	return d, a.refresh(ctx)
}

// Destroy stops the controller. The App cannot be used afterwards.
func (a *App) Destroy() {
	a.ctrl.Destroy()
	a.panel.OnChange(nil)
	a.initialized = false
}

func (a *App) refresh(ctx context.Context) error {
	ds, err := a.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("app: refresh: %w", err)
	}
	a.panel.SetDestinations(ds)
	a.handleFilterChange(a.panel.Filtered())
	return nil
}

// handleFilterChange records the filtered subset. Markers are only touched
// when no journey owns the map.
func (a *App) handleFilterChange(ds []models.Destination) {
	a.visible = ds
	a.ctrl.SetDestinations(ds)
	if a.ctrl.State().Active() || a.pres.DetailsVisible() {
		return
	}
	a.try("update markers", func() error { return a.view.UpdateMarkers(ds) })
}

func (a *App) try(op string, fn func() error) {
	if err := fn(); err != nil {
		a.logger.Warn("collaborator call failed", "op", op, "error", err)
	}
}
