// Package journey sequences a single trip on the map: camera fit, vehicle
// animation, arrival and detail reveal.
//
// The Controller is not safe for concurrent use. Every method and every
// callback it schedules must run on the scheduler's logical thread. Delayed
// callbacks capture the generation that was current when they were
// scheduled and do nothing if it has changed since.
package journey

import (
	"fmt"
	"log/slog"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/schedule"
)

// Controller owns the journey state machine
type Controller struct {
	sched    schedule.Scheduler
	view     ViewPort
	pres     Presentation
	clock    *animation.Clock
	opts     Options
	logger   *slog.Logger
	observer Observer

	state     State
	pending   schedule.Group
	visible   []models.Destination
	destroyed bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the lifecycle observer
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithOptions replaces the default timing and geometry options
func WithOptions(o Options) Option {
	return func(c *Controller) {
		c.opts = o.normalized()
	}
}

// WithClock uses an existing animation clock
func WithClock(clock *animation.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// NewController creates a Controller. A nil view or presentation is replaced
// with one that does nothing, so the journey still runs to completion.
func NewController(sched schedule.Scheduler, view ViewPort, pres Presentation, opts ...Option) *Controller {
	if view == nil {
		view = nopView{}
	}
	if pres == nil {
		pres = nopPresentation{}
	}
	c := &Controller{
		sched:    sched,
		view:     view,
		pres:     pres,
		opts:     DefaultOptions(),
		logger:   slog.New(slog.DiscardHandler),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = animation.NewClock(sched,
			animation.WithGrace(c.opts.LandingGrace),
			animation.WithLogger(c.logger))
	}
	return c
}

// Select starts a journey to d. It returns false without side effects when
// a journey is already in flight.
func (c *Controller) Select(d models.Destination) bool {
	if c.destroyed {
		return false
	}
	if c.state.Phase != Idle {
		c.logger.Debug("selection rejected", "destination", d.ID, "phase", c.state.Phase)
		c.observer.SelectionRejected(d, c.state.Phase)
		return false
	}

	c.pending.CancelAll()
	c.state.Generation++
	c.state.Destination = &d
	c.state.Progress = 0
	gen := c.state.Generation
	c.setPhase(Preparing)

	c.call("update markers", func() error {
		return c.view.UpdateMarkers([]models.Destination{d})
	})
	c.call("set status", func() error {
		return c.pres.SetStatus(Status{Kind: StatusPreparing, Vehicle: d.Kind, Name: d.Name})
	})

	settled := false
	onSettled := func() {
		if settled || gen != c.state.Generation || c.state.Phase != Preparing {
			return
		}
		settled = true
		c.pending.Add(c.sched.After(c.opts.SettleDelay, c.guard(gen, c.startMoving)))
	}
	c.call("fit to route", func() error {
		return c.view.FitToRoute(d.Start, d.End, RouteZoom, onSettled)
	})
	c.pending.Add(c.sched.After(c.opts.SettleTimeout, c.guard(gen, func() {
		if !settled {
			c.logger.Debug("view did not settle, starting anyway", "destination", d.ID)
		}
		onSettled()
	})))

	return true
}

func (c *Controller) startMoving() {
	d := *c.state.Destination
	gen := c.state.Generation

	path := geometry.PathPoints(d.Start, d.End, d.Kind, c.opts.StepCount, c.opts.CurveFactor)

	c.call("clear route", c.view.ClearRoute)
	c.call("create path", func() error {
		return c.view.CreatePath(StyleFor(d.Kind))
	})
	c.call("move vehicle", func() error {
		return c.view.MoveVehicle(d.Kind, path[0], geometry.Rotation(path[0], path[1]))
	})

	err := c.clock.Start(path, c.opts.Duration,
		func(f animation.Frame) { c.onFrame(gen, d, f) },
		c.guard(gen, c.arrive))
	if err != nil {
		c.logger.Error("animation failed to start", "destination", d.ID, "error", err)
		c.Reset()
		return
	}

	c.setPhase(Moving)
	c.call("set status", func() error {
		return c.pres.SetStatus(Status{Kind: StatusMoving, Vehicle: d.Kind, Name: d.Name})
	})
}

func (c *Controller) onFrame(gen uint64, d models.Destination, f animation.Frame) {
	if gen != c.state.Generation {
		return
	}
	c.state.Progress = f.Progress

	c.call("update path", func() error {
		return c.view.UpdatePath(f.Trail)
	})
	c.call("move vehicle", func() error {
		return c.view.MoveVehicle(d.Kind, f.Position, f.Heading)
	})
	c.observer.Frame(d, f)

	if f.Final() {
		c.call("land", c.view.Land)
	}
}

func (c *Controller) arrive() {
	d := *c.state.Destination
	gen := c.state.Generation

	c.state.Progress = 1
	c.setPhase(Arrived)
	c.call("set status", func() error {
		return c.pres.SetStatus(Status{Kind: StatusArrived, Vehicle: d.Kind, Name: d.Name})
	})

	c.pending.Add(c.sched.After(c.opts.ArrivalDelay, c.guard(gen, c.reveal)))
}

func (c *Controller) reveal() {
	d := *c.state.Destination

	c.setPhase(Details)
	c.call("show details", func() error {
		return c.pres.ShowDetails(d)
	})
	c.call("update markers", func() error {
		return c.view.UpdateMarkers([]models.Destination{d})
	})
	c.call("zoom to", func() error {
		return c.view.ZoomTo(d.End, c.opts.DetailsZoom, DetailsZoom)
	})
}

// Close dismisses the detail view and returns to Idle, restoring markers for
// the current destination set. It is a no-op outside Details.
func (c *Controller) Close() bool {
	if c.state.Phase != Details {
		return false
	}
	c.pending.CancelAll()

	c.call("hide details", c.pres.HideDetails)
	c.call("clear route", c.view.ClearRoute)
	c.call("update markers", func() error {
		return c.view.UpdateMarkers(c.visible)
	})
	c.call("fit to all", func() error {
		return c.view.FitToAll(c.visible, OverviewZoom)
	})
	c.call("set status", func() error {
		return c.pres.SetStatus(IdleStatus)
	})

	c.setPhase(Idle)
	c.state.Destination = nil
	c.state.Progress = 0
	return true
}

// Reset abandons any journey in flight. It is safe to call from any phase
// and more than once.
func (c *Controller) Reset() {
	c.state.Generation++
	c.clock.Cancel()
	c.pending.CancelAll()

	if c.state.Phase == Idle {
		return
	}

	c.call("clear route", c.view.ClearRoute)
	if c.detailsVisible() {
		c.call("hide details", c.pres.HideDetails)
	}
	c.call("update markers", func() error {
		return c.view.UpdateMarkers(c.visible)
	})
	c.call("set status", func() error {
		return c.pres.SetStatus(IdleStatus)
	})

	c.setPhase(Idle)
	c.state.Destination = nil
	c.state.Progress = 0
}

// Destroy resets the controller and refuses further selections
func (c *Controller) Destroy() {
	c.Reset()
	c.destroyed = true
}

// SetDestinations records the destination set restored on close
func (c *Controller) SetDestinations(ds []models.Destination) {
	c.visible = append([]models.Destination(nil), ds...)
}

// IsAnimating reports whether the vehicle is moving
func (c *Controller) IsAnimating() bool {
	return c.state.Phase == Moving
}

// CurrentDestination returns the destination of the journey in flight, or nil
func (c *Controller) CurrentDestination() *models.Destination {
	if c.state.Destination == nil {
		return nil
	}
	d := *c.state.Destination
	return &d
}

// State returns a snapshot of the journey state
func (c *Controller) State() State {
	s := c.state
	s.Destination = c.CurrentDestination()
	return s
}

// Options returns the effective options
func (c *Controller) Options() Options {
	return c.opts
}

func (c *Controller) setPhase(to Phase) {
	from := c.state.Phase
	c.state.Phase = to
	c.logger.Debug("phase changed", "from", from, "to", to, "generation", c.state.Generation)
	c.observer.PhaseChanged(from, to, c.CurrentDestination())
}

// guard wraps fn so it only runs while gen is still current
func (c *Controller) guard(gen uint64, fn func()) func() {
	return func() {
		if gen != c.state.Generation {
			c.logger.Debug("stale callback discarded", "generation", gen, "current", c.state.Generation)
			return
		}
		fn()
	}
}

// call invokes a collaborator, logging errors and panics instead of
// propagating them
func (c *Controller) call(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			c.collaboratorFailed(op, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		c.collaboratorFailed(op, err)
	}
}

func (c *Controller) collaboratorFailed(op string, err error) {
	c.logger.Warn("collaborator call failed", "op", op, "error", err)
	c.observer.CollaboratorFailed(op, err)
}

func (c *Controller) detailsVisible() (visible bool) {
	defer func() {
		if r := recover(); r != nil {
			c.collaboratorFailed("details visible", fmt.Errorf("panic: %v", r))
			visible = false
		}
	}()
	return c.pres.DetailsVisible()
}
