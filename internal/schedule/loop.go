package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by Post once the loop has exited
var ErrStopped = errors.New("schedule: loop stopped")

// Loop is a real-time Scheduler. Timers fire on their own goroutines but only
// post work to the loop; every callback runs on the goroutine that called Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	frame time.Duration
	now   func() time.Time
}

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithFrameInterval overrides the frame interval
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frame = d
		}
	}
}

// NewLoop creates a Loop. Call Run to start processing callbacks.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
		frame: FrameInterval,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the wall clock time
func (l *Loop) Now() time.Time {
	return l.now()
}

// After runs fn on the loop after d
func (l *Loop) After(d time.Duration, fn func()) Handle {
	h := &loopHandle{}
	h.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if h.active() {
				fn()
			}
		})
	})
	return h
}

// NextFrame runs fn on the loop after one frame interval
func (l *Loop) NextFrame(fn func(now time.Time)) Handle {
	return l.After(l.frame, func() { fn(l.now()) })
}

// Post queues fn to run on the loop goroutine
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Run processes callbacks until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

type loopHandle struct {
	flagHandle
	timer *time.Timer
}

func (h *loopHandle) Cancel() {
	h.flagHandle.Cancel()
	if h.timer != nil {
		h.timer.Stop()
	}
}
