package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mobil-koeln/roamly/internal/testutil"
)

func TestLoop_RunsCallbacksOnLoop(t *testing.T) {
	l := NewLoop(WithFrameInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan time.Time, 1)
	l.After(5*time.Millisecond, func() {
		l.NextFrame(func(now time.Time) {
			frames <- now
			cancel()
		})
	})

	err := l.Run(ctx)
	testutil.AssertTrue(t, errors.Is(err, context.Canceled))

	select {
	case ts := <-frames:
		testutil.AssertFalse(t, ts.IsZero())
	default:
		t.Fatal("frame callback did not run")
	}
}

func TestLoop_CancelledHandleDoesNotRun(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ran := false
	// cancel from the loop goroutine before the timer fires
	_ = l.Post(func() {
		h := l.After(20*time.Millisecond, func() { ran = true })
		h.Cancel()
	})

	_ = l.Run(ctx)
	testutil.AssertFalse(t, ran)
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = l.Run(ctx)

	<-l.Done()
	err := l.Post(func() {})
	testutil.AssertTrue(t, errors.Is(err, ErrStopped))
}
