package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/schedule"
)

const barWidth = 30

// Console is a headless ViewPort and Presentation that narrates a journey
// as text. It also implements journey.Observer to draw a progress bar.
// All methods must be called from the scheduler's thread.
type Console struct {
	w     io.Writer
	c     *Colors
	sched schedule.Scheduler

	// live redraws the progress line in place instead of printing milestones
	live bool

	markers []models.Destination
	details *models.Destination
	status  journey.Status
	style   journey.PathStyle
	trail   int

	lastMilestone int
	drawing       bool
}

// ConsoleOption configures a Console
type ConsoleOption func(*Console)

func WithColors(c *Colors) ConsoleOption {
	return func(con *Console) {
		if c != nil {
			con.c = c
		}
	}
}

// WithLiveProgress redraws the progress bar on every frame
func WithLiveProgress(live bool) ConsoleOption {
	return func(con *Console) { con.live = live }
}

// NewConsole writes to w. Camera transitions settle after their configured
// duration on sched, or immediately when sched is nil.
func NewConsole(w io.Writer, sched schedule.Scheduler, opts ...ConsoleOption) *Console {
	con := &Console{w: w, c: NewColors(ColorNever), sched: sched, lastMilestone: -1}
	for _, opt := range opts {
		opt(con)
	}
	return con
}

var (
	_ journey.ViewPort     = (*Console)(nil)
	_ journey.Presentation = (*Console)(nil)
	_ journey.Observer     = (*Console)(nil)
)

func (con *Console) printf(format string, a ...interface{}) {
	con.endLine()
	_, _ = fmt.Fprintf(con.w, format, a...)
}

func (con *Console) camera(format string, a ...interface{}) {
	con.printf("%s %s\n", con.c.Muted("camera:"), fmt.Sprintf(format, a...))
}

// endLine terminates an in-place progress line before other output
func (con *Console) endLine() {
	if con.drawing {
		_, _ = fmt.Fprintln(con.w)
		con.drawing = false
	}
}

func (con *Console) FitToRoute(start, end models.Coordinate, opts journey.ZoomOptions, settled func()) error {
	con.camera("fit %s → %s (%s)", con.c.Coord("%s", start), con.c.Coord("%s", end), opts.Duration)
	if con.sched == nil {
		settled()
		return nil
	}
	con.sched.After(opts.Duration, settled)
	return nil
}

func (con *Console) FitToAll(destinations []models.Destination, opts journey.ZoomOptions) error {
	con.camera("overview of %d destinations", len(destinations))
	return nil
}

func (con *Console) ZoomTo(c models.Coordinate, level int, _ journey.ZoomOptions) error {
	con.camera("zoom %d on %s", level, con.c.Coord("%s", c))
	return nil
}

func (con *Console) AddMarker(d models.Destination) error {
	con.markers = append(con.markers, d)
	return nil
}

func (con *Console) RemoveMarker(id int) error {
	for i, m := range con.markers {
		if m.ID == id {
			con.markers = append(con.markers[:i], con.markers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (con *Console) UpdateMarkers(destinations []models.Destination) error {
	con.markers = append(con.markers[:0], destinations...)
	names := make([]string, len(con.markers))
	for i, m := range con.markers {
		names[i] = m.Name
	}
	con.printf("%s %s\n", con.c.Muted("markers:"), strings.Join(names, ", "))
	return nil
}

// Markers returns the visible markers
func (con *Console) Markers() []models.Destination {
	return append([]models.Destination(nil), con.markers...)
}

func (con *Console) CreatePath(style journey.PathStyle) error {
	con.style = style
	con.trail = 0
	con.lastMilestone = -1
	return nil
}

func (con *Console) UpdatePath(points []models.Coordinate) error {
	con.trail = len(points)
	return nil
}

func (con *Console) MoveVehicle(models.VehicleKind, models.Coordinate, float64) error {
	return nil
}

func (con *Console) Land() error {
	con.printf("%s\n", con.c.Muted("landing"))
	return nil
}

func (con *Console) ClearRoute() error {
	con.endLine()
	con.trail = 0
	return nil
}

func (con *Console) SetStatus(s journey.Status) error {
	con.status = s
	con.printf("%s\n", con.c.Status("%s", s.Text()))
	return nil
}

func (con *Console) ShowDetails(d models.Destination) error {
	con.details = &d
	con.printf("\n%s\n", con.c.Header("%s", d.Name))
	if d.Date != "" {
		con.printf("  %s\n", con.c.Date("%s", d.Date))
	}
	if d.Description != "" {
		con.printf("  %s\n", d.Description)
	}
	if d.ImageURL != "" {
		con.printf("  %s %s\n", con.c.Muted("image:"), d.ImageURL)
	}
	if d.VideoURL != "" {
		con.printf("  %s %s\n", con.c.Muted("video:"), d.VideoURL)
	}
	con.printf("\n")
	return nil
}

func (con *Console) HideDetails() error {
	con.details = nil
	return nil
}

func (con *Console) DetailsVisible() bool {
	return con.details != nil
}

// Status returns the last status set
func (con *Console) Status() journey.Status {
	return con.status
}

func (con *Console) PhaseChanged(journey.Phase, journey.Phase, *models.Destination) {}

func (con *Console) SelectionRejected(d models.Destination, current journey.Phase) {
	con.printf("%s\n", con.c.Warn("ignored %s: journey is %s", d.Name, current))
}

func (con *Console) Frame(d models.Destination, f animation.Frame) {
	if con.live {
		ClearLine(con.w)
		_, _ = fmt.Fprint(con.w, con.progressLine(d, f))
		con.drawing = true
		if f.Final() {
			con.endLine()
		}
		return
	}

	milestone := int(f.Progress * 4)
	if milestone == con.lastMilestone {
		return
	}
	con.lastMilestone = milestone
	_, _ = fmt.Fprintln(con.w, con.progressLine(d, f))
}

func (con *Console) CollaboratorFailed(op string, err error) {
	con.printf("%s\n", con.c.Warn("%s failed: %v", op, err))
}

func (con *Console) progressLine(d models.Destination, f animation.Frame) string {
	filled := int(f.Progress * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}
	return fmt.Sprintf("[%s] %3d%% %s %s",
		con.c.Kind(d.Kind)("%s", bar),
		int(f.Progress*100),
		con.c.Heading("%s", HeadingArrow(f.Heading)),
		con.c.Coord("%s", f.Position),
	)
}
