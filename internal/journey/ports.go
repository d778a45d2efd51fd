package journey

import (
	"fmt"
	"time"

	"github.com/mobil-koeln/roamly/internal/models"
)

// ZoomOptions controls a camera transition
type ZoomOptions struct {
	PaddingX, PaddingY int
	Duration           time.Duration
	// EaseLinearity is the easing curve strength, 0 disables easing
	EaseLinearity float64
}

// Camera presets
var (
	RouteZoom    = ZoomOptions{PaddingX: 100, PaddingY: 100, Duration: 1200 * time.Millisecond, EaseLinearity: 0.25}
	OverviewZoom = ZoomOptions{PaddingX: 80, PaddingY: 80, Duration: 1500 * time.Millisecond}
	DetailsZoom  = ZoomOptions{Duration: 1500 * time.Millisecond}
)

// DetailsZoomLevel is the map zoom used when revealing a destination
const DetailsZoomLevel = 10

// PathStyle describes how a route trail is drawn
type PathStyle struct {
	Color string
	// Dash is an SVG-style dash array, empty for a solid line
	Dash string
}

// Dashed reports whether the style has a dash pattern
func (s PathStyle) Dashed() bool {
	return s.Dash != ""
}

// StyleFor returns the trail style for a vehicle kind
func StyleFor(kind models.VehicleKind) PathStyle {
	switch kind {
	case models.KindTrain:
		return PathStyle{Color: "#E76F51", Dash: "5, 10"}
	case models.KindCar:
		return PathStyle{Color: "#6B8E6E", Dash: "5, 10"}
	default:
		return PathStyle{Color: "#1F6F8B"}
	}
}

// ViewPort is the camera and map layer the controller drives.
//
// FitToRoute must call settled exactly once when the camera transition ends,
// or not at all if it cannot; the controller falls back to a timeout.
type ViewPort interface {
	FitToRoute(start, end models.Coordinate, opts ZoomOptions, settled func()) error
	FitToAll(destinations []models.Destination, opts ZoomOptions) error
	ZoomTo(c models.Coordinate, level int, opts ZoomOptions) error

	AddMarker(d models.Destination) error
	RemoveMarker(id int) error
	UpdateMarkers(destinations []models.Destination) error

	CreatePath(style PathStyle) error
	UpdatePath(points []models.Coordinate) error
	MoveVehicle(kind models.VehicleKind, pos models.Coordinate, heading float64) error
	Land() error
	ClearRoute() error
}

// Presentation shows status text and the destination detail card
type Presentation interface {
	SetStatus(s Status) error
	ShowDetails(d models.Destination) error
	HideDetails() error
	DetailsVisible() bool
}

// StatusKind selects one of the canned status messages
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusPreparing
	StatusMoving
	StatusArrived
)

// Status is a status line update
type Status struct {
	Kind    StatusKind
	Vehicle models.VehicleKind
	Name    string
}

// IdleStatus is shown when no journey is active
var IdleStatus = Status{Kind: StatusIdle}

// Text renders the status message
func (s Status) Text() string {
	switch s.Kind {
	case StatusPreparing:
		return fmt.Sprintf("Preparing route: %s", s.Name)
	case StatusMoving:
		switch s.Vehicle {
		case models.KindTrain:
			return fmt.Sprintf("Travelling by train to: %s", s.Name)
		case models.KindCar:
			return fmt.Sprintf("Driving to: %s", s.Name)
		default:
			return fmt.Sprintf("Flying to: %s", s.Name)
		}
	case StatusArrived:
		return fmt.Sprintf("Arrived at: %s", s.Name)
	default:
		return "Choose a destination on the map"
	}
}

func (s Status) String() string {
	return s.Text()
}
