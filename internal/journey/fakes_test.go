package journey

import (
	"errors"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/models"
)

// fakeView records calls and lets tests settle the camera by hand
type fakeView struct {
	calls       []string
	settle      func()
	autoSettle  bool
	failOps     map[string]bool
	panicOps    map[string]bool
	markers     []models.Destination
	trail       []models.Coordinate
	vehicle     models.Coordinate
	style       PathStyle
	landed      int
	routeActive bool
}

func newFakeView() *fakeView {
	return &fakeView{failOps: map[string]bool{}, panicOps: map[string]bool{}}
}

var errFake = errors.New("fake collaborator failure")

func (v *fakeView) record(op string) error {
	v.calls = append(v.calls, op)
	if v.panicOps[op] {
		panic(op + " exploded")
	}
	if v.failOps[op] {
		return errFake
	}
	return nil
}

func (v *fakeView) count(op string) int {
	n := 0
	for _, c := range v.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (v *fakeView) FitToRoute(start, end models.Coordinate, opts ZoomOptions, settled func()) error {
	if err := v.record("FitToRoute"); err != nil {
		return err
	}
	v.settle = settled
	if v.autoSettle {
		settled()
	}
	return nil
}

func (v *fakeView) FitToAll(ds []models.Destination, opts ZoomOptions) error {
	return v.record("FitToAll")
}

func (v *fakeView) ZoomTo(c models.Coordinate, level int, opts ZoomOptions) error {
	return v.record("ZoomTo")
}

func (v *fakeView) AddMarker(d models.Destination) error { return v.record("AddMarker") }
func (v *fakeView) RemoveMarker(id int) error            { return v.record("RemoveMarker") }

func (v *fakeView) UpdateMarkers(ds []models.Destination) error {
	v.markers = append([]models.Destination(nil), ds...)
	return v.record("UpdateMarkers")
}

func (v *fakeView) CreatePath(style PathStyle) error {
	v.style = style
	v.routeActive = true
	return v.record("CreatePath")
}

func (v *fakeView) UpdatePath(points []models.Coordinate) error {
	v.trail = points
	return v.record("UpdatePath")
}

func (v *fakeView) MoveVehicle(kind models.VehicleKind, pos models.Coordinate, heading float64) error {
	v.vehicle = pos
	return v.record("MoveVehicle")
}

func (v *fakeView) Land() error {
	v.landed++
	return v.record("Land")
}

func (v *fakeView) ClearRoute() error {
	v.routeActive = false
	v.trail = nil
	return v.record("ClearRoute")
}

type fakePresentation struct {
	statuses []Status
	details  *models.Destination
	failAll  bool
}

func (p *fakePresentation) SetStatus(s Status) error {
	p.statuses = append(p.statuses, s)
	if p.failAll {
		return errFake
	}
	return nil
}

func (p *fakePresentation) ShowDetails(d models.Destination) error {
	if p.failAll {
		return errFake
	}
	p.details = &d
	return nil
}

func (p *fakePresentation) HideDetails() error {
	p.details = nil
	if p.failAll {
		return errFake
	}
	return nil
}

func (p *fakePresentation) DetailsVisible() bool {
	return p.details != nil
}

func (p *fakePresentation) lastStatus() Status {
	if len(p.statuses) == 0 {
		return Status{}
	}
	return p.statuses[len(p.statuses)-1]
}

// phaseRecorder collects phase transitions and other observer events
type phaseRecorder struct {
	NopObserver
	phases   []Phase
	rejected int
	frames   int
	failures []string
}

func (r *phaseRecorder) PhaseChanged(from, to Phase, d *models.Destination) {
	if len(r.phases) == 0 {
		r.phases = append(r.phases, from)
	}
	r.phases = append(r.phases, to)
}

func (r *phaseRecorder) SelectionRejected(models.Destination, Phase) { r.rejected++ }
func (r *phaseRecorder) Frame(models.Destination, animation.Frame)  { r.frames++ }

func (r *phaseRecorder) CollaboratorFailed(op string, err error) {
	r.failures = append(r.failures, op)
}
