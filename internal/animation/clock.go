// Package animation advances a vehicle along a precomputed path over wall
// clock time, independent of frame rate.
package animation

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/schedule"
)

// DefaultGrace is the pause between the final frame and the completion
// callback, leaving room for the landing cue.
const DefaultGrace = 500 * time.Millisecond

var (
	// ErrBusy is returned by Start while a run is active
	ErrBusy = errors.New("animation: already running")
	// ErrEmptyPath is returned by Start for a path without points
	ErrEmptyPath = errors.New("animation: empty path")
)

// Frame is one sampled animation step
type Frame struct {
	Position models.Coordinate
	Heading  float64
	// Trail is path[0..i1] followed by Position
	Trail    []models.Coordinate
	Progress float64
}

// Final reports whether this is the last frame of a run
func (f Frame) Final() bool {
	return f.Progress >= 1
}

// Clock runs at most one animation at a time
type Clock struct {
	sched  schedule.Scheduler
	grace  time.Duration
	logger *slog.Logger

	run *run
}

type run struct {
	path       []models.Coordinate
	start      time.Time
	duration   time.Duration
	progress   float64
	onFrame    func(Frame)
	onComplete func()
	frame      schedule.Handle
	complete   schedule.Handle
}

// Option configures a Clock
type Option func(*Clock)

// WithGrace sets the delay between the final frame and completion
func WithGrace(d time.Duration) Option {
	return func(c *Clock) {
		if d >= 0 {
			c.grace = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Clock) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClock creates a Clock driven by sched
func NewClock(sched schedule.Scheduler, opts ...Option) *Clock {
	c := &Clock{
		sched:  sched,
		grace:  DefaultGrace,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start animates along path over duration. The first frame is emitted on the
// next scheduler frame. A non-positive duration completes in a single frame.
// Start refuses to replace an active run.
func (c *Clock) Start(path []models.Coordinate, duration time.Duration, onFrame func(Frame), onComplete func()) error {
	if c.run != nil {
		return ErrBusy
	}
	if len(path) == 0 {
		return ErrEmptyPath
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	r := &run{
		path:       path,
		start:      c.sched.Now(),
		duration:   duration,
		onFrame:    onFrame,
		onComplete: onComplete,
	}
	c.run = r
	r.frame = c.sched.NextFrame(func(now time.Time) { c.tick(r, now) })
	c.logger.Debug("animation started", "points", len(path), "duration", duration)
	return nil
}

// Cancel stops the active run without invoking its completion callback
func (c *Clock) Cancel() {
	r := c.run
	if r == nil {
		return
	}
	c.run = nil
	if r.frame != nil {
		r.frame.Cancel()
	}
	if r.complete != nil {
		r.complete.Cancel()
	}
	c.logger.Debug("animation cancelled", "progress", r.progress)
}

// Running reports whether a run is active. A run stays active until its
// completion callback fires.
func (c *Clock) Running() bool {
	return c.run != nil
}

// Progress returns the progress of the active run, or 0
func (c *Clock) Progress() float64 {
	if c.run == nil {
		return 0
	}
	return c.run.progress
}

func (c *Clock) tick(r *run, now time.Time) {
	if c.run != r {
		return
	}

	progress := 1.0
	if r.duration > 0 {
		progress = math.Min(float64(now.Sub(r.start))/float64(r.duration), 1)
	}
	// clock skew must not move the vehicle backwards
	if progress < r.progress {
		progress = r.progress
	}
	r.progress = progress

	frame := Sample(r.path, progress)
	r.onFrame(frame)

	// onFrame may have cancelled this run
	if c.run != r {
		return
	}

	if progress < 1 {
		r.frame = c.sched.NextFrame(func(now time.Time) { c.tick(r, now) })
		return
	}

	r.frame = nil
	r.complete = c.sched.After(c.grace, func() {
		if c.run != r {
			return
		}
		c.run = nil
		r.onComplete()
	})
}

// Sample returns the frame at progress along path. path must not be empty.
func Sample(path []models.Coordinate, progress float64) Frame {
	progress = math.Max(0, math.Min(progress, 1))
	last := len(path) - 1

	idx := progress * float64(last)
	i1 := int(math.Floor(idx))
	if i1 > last {
		i1 = last
	}
	i2 := i1 + 1
	if i2 > last {
		i2 = last
	}
	sub := idx - float64(i1)

	pos := geometry.Interpolate(path[i1], path[i2], sub)

	trail := make([]models.Coordinate, 0, i1+2)
	trail = append(trail, path[:i1+1]...)
	trail = append(trail, pos)

	return Frame{
		Position: pos,
		Heading:  geometry.Rotation(path[i1], path[i2]),
		Trail:    trail,
		Progress: progress,
	}
}
