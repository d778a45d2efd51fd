// Package schedule provides the cooperative scheduling primitives the journey
// engine runs on: one-shot delayed actions and per-frame callbacks, both
// returning cancellable handles.
//
// Implementations must invoke every callback on a single logical thread so
// callers can mutate their state without locks.
package schedule

import (
	"sync/atomic"
	"time"
)

// FrameInterval is the nominal time between frame callbacks (about 60 fps)
const FrameInterval = 16 * time.Millisecond

// Handle cancels a scheduled callback. Cancel is idempotent and a no-op once
// the callback has run.
type Handle interface {
	Cancel()
}

// Scheduler runs callbacks later on the caller's logical thread
type Scheduler interface {
	// Now returns the scheduler's current time
	Now() time.Time
	// After runs fn once after d
	After(d time.Duration, fn func()) Handle
	// NextFrame runs fn on the next display frame with the frame timestamp
	NextFrame(fn func(now time.Time)) Handle
}

// Group tracks handles so they can be cancelled together
type Group struct {
	handles []Handle
}

// Add records h and returns it
func (g *Group) Add(h Handle) Handle {
	g.handles = append(g.handles, h)
	return h
}

// CancelAll cancels every recorded handle and forgets them
func (g *Group) CancelAll() {
	for _, h := range g.handles {
		h.Cancel()
	}
	g.handles = nil
}

// Len returns the number of tracked handles
func (g *Group) Len() int {
	return len(g.handles)
}

type flagHandle struct {
	cancelled atomic.Bool
}

func (h *flagHandle) Cancel() {
	h.cancelled.Store(true)
}

func (h *flagHandle) active() bool {
	return !h.cancelled.Load()
}

// NopHandle is a Handle that does nothing
type NopHandle struct{}

func (NopHandle) Cancel() {}
