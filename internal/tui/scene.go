package tui

import (
	"math"

	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/schedule"
)

// minSpan keeps the camera from collapsing onto a single point
const minSpan = 0.05

type vehicle struct {
	kind    models.VehicleKind
	pos     models.Coordinate
	heading float64
}

// Scene is the terminal map. It implements journey.ViewPort and
// journey.Presentation by recording what should be drawn; the model renders
// it on every View call. Only the Bubble Tea update loop may touch it.
type Scene struct {
	sched schedule.Scheduler

	markers []models.Destination

	camera geometry.Bounds
	// moving is true while a route fit transition is in progress
	moving bool

	style   journey.PathStyle
	route   bool
	trail   []models.Coordinate
	vehicle *vehicle
	landed  bool

	status  journey.Status
	details *models.Destination
}

// NewScene creates an empty scene. Camera transitions complete on sched.
func NewScene(sched schedule.Scheduler) *Scene {
	return &Scene{
		sched:  sched,
		status: journey.IdleStatus,
		camera: geometry.Bounds{MinLat: -60, MaxLat: 75, MinLng: -180, MaxLng: 180},
	}
}

var (
	_ journey.ViewPort     = (*Scene)(nil)
	_ journey.Presentation = (*Scene)(nil)
)

func (s *Scene) FitToRoute(start, end models.Coordinate, opts journey.ZoomOptions, settled func()) error {
	b, _ := geometry.BoundsOf(start, end)
	s.camera = widen(b).Pad(0.2)
	s.moving = true
	s.sched.After(opts.Duration, func() {
		s.moving = false
		settled()
	})
	return nil
}

func (s *Scene) FitToAll(destinations []models.Destination, _ journey.ZoomOptions) error {
	points := make([]models.Coordinate, 0, 2*len(destinations))
	for _, d := range destinations {
		points = append(points, d.Start, d.End)
	}
	b, ok := geometry.BoundsOf(points...)
	if !ok {
		return nil
	}
	s.camera = widen(b).Pad(0.1)
	return nil
}

// ZoomTo centers on c showing 360/2^level degrees of longitude
func (s *Scene) ZoomTo(c models.Coordinate, level int, _ journey.ZoomOptions) error {
	span := 360 / math.Pow(2, float64(level))
	s.camera = geometry.Bounds{
		MinLat: c.Lat - span/4, MaxLat: c.Lat + span/4,
		MinLng: c.Lng - span/2, MaxLng: c.Lng + span/2,
	}
	return nil
}

func (s *Scene) AddMarker(d models.Destination) error {
	s.markers = append(s.markers, d)
	return nil
}

func (s *Scene) RemoveMarker(id int) error {
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Scene) UpdateMarkers(destinations []models.Destination) error {
	s.markers = append([]models.Destination(nil), destinations...)
	return nil
}

func (s *Scene) CreatePath(style journey.PathStyle) error {
	s.style = style
	s.route = true
	s.trail = nil
	s.landed = false
	return nil
}

func (s *Scene) UpdatePath(points []models.Coordinate) error {
	s.trail = append(s.trail[:0], points...)
	return nil
}

func (s *Scene) MoveVehicle(kind models.VehicleKind, pos models.Coordinate, heading float64) error {
	s.vehicle = &vehicle{kind: kind, pos: pos, heading: heading}
	return nil
}

func (s *Scene) Land() error {
	s.landed = true
	return nil
}

func (s *Scene) ClearRoute() error {
	s.route = false
	s.trail = nil
	s.vehicle = nil
	s.landed = false
	s.moving = false
	return nil
}

func (s *Scene) SetStatus(st journey.Status) error {
	s.status = st
	return nil
}

func (s *Scene) ShowDetails(d models.Destination) error {
	s.details = &d
	return nil
}

func (s *Scene) HideDetails() error {
	s.details = nil
	return nil
}

func (s *Scene) DetailsVisible() bool {
	return s.details != nil
}

// widen grows degenerate boxes to minSpan on each axis
func widen(b geometry.Bounds) geometry.Bounds {
	if b.MaxLat-b.MinLat < minSpan {
		mid := (b.MinLat + b.MaxLat) / 2
		b.MinLat, b.MaxLat = mid-minSpan/2, mid+minSpan/2
	}
	if b.MaxLng-b.MinLng < minSpan {
		mid := (b.MinLng + b.MaxLng) / 2
		b.MinLng, b.MaxLng = mid-minSpan/2, mid+minSpan/2
	}
	return b
}
