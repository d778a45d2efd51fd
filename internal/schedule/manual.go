package schedule

import (
	"sort"
	"time"
)

// Manual is a virtual-clock Scheduler. Nothing runs until Advance is called,
// which makes timing-dependent code deterministic in tests and in headless
// fast-forward runs.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
	frame time.Duration
}

type manualTask struct {
	flagHandle
	due time.Time
	seq uint64
	run func(now time.Time)
}

// NewManual returns a Manual scheduler whose clock starts at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, frame: FrameInterval}
}

// Now returns the virtual time
func (m *Manual) Now() time.Time {
	return m.now
}

// After schedules fn at Now()+d. Negative durations run on the next Advance.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	return m.push(m.now.Add(d), func(time.Time) { fn() })
}

// NextFrame schedules fn one frame interval from now
func (m *Manual) NextFrame(fn func(now time.Time)) Handle {
	return m.push(m.now.Add(m.frame), fn)
}

func (m *Manual) push(due time.Time, fn func(now time.Time)) Handle {
	m.seq++
	t := &manualTask{due: due, seq: m.seq, run: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due in
// order of due time and then scheduling order. Tasks scheduled while
// advancing run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		if next.due.After(m.now) {
			m.now = next.due
		}
		m.remove(next)
		if next.active() {
			next.run(m.now)
		}
	}
	m.now = target
}

// Step advances one frame interval
func (m *Manual) Step() {
	m.Advance(m.frame)
}

// RunUntilIdle advances until no live tasks remain or limit elapses.
// It reports whether the queue drained.
func (m *Manual) RunUntilIdle(limit time.Duration) bool {
	deadline := m.now.Add(limit)
	for m.Pending() > 0 {
		if !m.now.Before(deadline) {
			return false
		}
		m.Step()
	}
	return true
}

// Pending returns the number of live tasks not yet run
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if t.active() {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if !m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].due.Before(m.tasks[j].due)
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if len(m.tasks) == 0 || m.tasks[0].due.After(target) {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) remove(t *manualTask) {
	for i, x := range m.tasks {
		if x == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
