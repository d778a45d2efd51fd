package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mobil-koeln/roamly/internal/schedule"
)

// timerMsg fires a task registered with the Scheduler
type timerMsg struct {
	id uint64
}

// Scheduler adapts schedule.Scheduler to Bubble Tea. Every task becomes a
// tea.Tick whose message is routed back through Model.Update, so callbacks
// run on the program's single update loop. Tasks queued during an update
// are handed to the runtime by Flush.
type Scheduler struct {
	frame   time.Duration
	now     func() time.Time
	seq     uint64
	pending map[uint64]task
	queued  []tea.Cmd
}

type task struct {
	due time.Time
	fn  func(time.Time)
}

// NewScheduler creates a Scheduler with the default frame interval
func NewScheduler() *Scheduler {
	return &Scheduler{
		frame:   schedule.FrameInterval,
		now:     time.Now,
		pending: make(map[uint64]task),
	}
}

var _ schedule.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) Now() time.Time {
	return s.now()
}

func (s *Scheduler) After(d time.Duration, fn func()) schedule.Handle {
	return s.push(d, func(time.Time) { fn() })
}

func (s *Scheduler) NextFrame(fn func(now time.Time)) schedule.Handle {
	return s.push(s.frame, fn)
}

func (s *Scheduler) push(d time.Duration, fn func(time.Time)) schedule.Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	id := s.seq
	s.pending[id] = task{due: s.now().Add(d), fn: fn}
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return taskHandle{s: s, id: id}
}

// Fire runs the task behind msg. Cancelled tasks are skipped.
func (s *Scheduler) Fire(msg timerMsg) {
	t, ok := s.pending[msg.id]
	if !ok {
		return
	}
	delete(s.pending, msg.id)
	t.fn(s.now())
}

// Flush returns the ticks queued since the last call
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of tasks that have not fired or been cancelled
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

type taskHandle struct {
	s  *Scheduler
	id uint64
}

func (h taskHandle) Cancel() {
	delete(h.s.pending, h.id)
}
