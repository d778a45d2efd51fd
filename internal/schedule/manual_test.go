package schedule

import (
	"testing"
	"time"

	"github.com/mobil-koeln/roamly/internal/testutil"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestManual_AfterRunsWhenDue(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	m.After(100*time.Millisecond, func() { ran = true })

	m.Advance(99 * time.Millisecond)
	testutil.AssertFalse(t, ran)

	m.Advance(time.Millisecond)
	testutil.AssertTrue(t, ran)
	testutil.AssertEqual(t, m.Pending(), 0)
}

func TestManual_Ordering(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.After(30*time.Millisecond, func() { order = append(order, "c") })
	m.After(10*time.Millisecond, func() { order = append(order, "a") })
	m.After(10*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(time.Second)
	testutil.AssertLen(t, order, 3)
	testutil.AssertEqual(t, order[0], "a")
	testutil.AssertEqual(t, order[1], "b")
	testutil.AssertEqual(t, order[2], "c")
}

func TestManual_NowDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var seen time.Time
	m.After(250*time.Millisecond, func() { seen = m.Now() })
	m.Advance(time.Second)

	testutil.AssertEqual(t, seen, epoch.Add(250*time.Millisecond))
	testutil.AssertEqual(t, m.Now(), epoch.Add(time.Second))
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	h := m.After(10*time.Millisecond, func() { ran = true })
	h.Cancel()
	h.Cancel()

	testutil.AssertEqual(t, m.Pending(), 0)
	m.Advance(time.Second)
	testutil.AssertFalse(t, ran)
}

func TestManual_ChainedTasksInsideWindow(t *testing.T) {
	m := NewManual(epoch)
	frames := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		frames++
		if frames < 5 {
			m.NextFrame(tick)
		}
	}
	m.NextFrame(tick)

	m.Advance(5 * FrameInterval)
	testutil.AssertEqual(t, frames, 5)
	testutil.AssertEqual(t, m.Pending(), 0)
}

func TestManual_FrameTimestamp(t *testing.T) {
	m := NewManual(epoch)
	var got time.Time
	m.NextFrame(func(now time.Time) { got = now })
	m.Step()
	testutil.AssertEqual(t, got, epoch.Add(FrameInterval))
}

func TestManual_RunUntilIdle(t *testing.T) {
	m := NewManual(epoch)
	m.After(40*time.Millisecond, func() {})
	testutil.AssertTrue(t, m.RunUntilIdle(time.Second))

	var forever func(time.Time)
	forever = func(time.Time) { m.NextFrame(forever) }
	m.NextFrame(forever)
	testutil.AssertFalse(t, m.RunUntilIdle(100*time.Millisecond))
}

func TestGroup_CancelAll(t *testing.T) {
	m := NewManual(epoch)
	var g Group
	count := 0
	g.Add(m.After(10*time.Millisecond, func() { count++ }))
	g.Add(m.After(20*time.Millisecond, func() { count++ }))
	testutil.AssertEqual(t, g.Len(), 2)

	g.CancelAll()
	testutil.AssertEqual(t, g.Len(), 0)
	m.Advance(time.Second)
	testutil.AssertEqual(t, count, 0)
}
