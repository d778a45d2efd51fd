package journey

import "github.com/mobil-koeln/roamly/internal/models"

type nopView struct{}

func (nopView) FitToRoute(models.Coordinate, models.Coordinate, ZoomOptions, func()) error {
	return nil
}

func (nopView) FitToAll([]models.Destination, ZoomOptions) error                 { return nil }
func (nopView) ZoomTo(models.Coordinate, int, ZoomOptions) error                 { return nil }
func (nopView) AddMarker(models.Destination) error                               { return nil }
func (nopView) RemoveMarker(int) error                                           { return nil }
func (nopView) UpdateMarkers([]models.Destination) error                         { return nil }
func (nopView) CreatePath(PathStyle) error                                       { return nil }
func (nopView) UpdatePath([]models.Coordinate) error                             { return nil }
func (nopView) MoveVehicle(models.VehicleKind, models.Coordinate, float64) error { return nil }
func (nopView) Land() error                                                      { return nil }
func (nopView) ClearRoute() error                                                { return nil }

type nopPresentation struct{}

func (nopPresentation) SetStatus(Status) error               { return nil }
func (nopPresentation) ShowDetails(models.Destination) error { return nil }
func (nopPresentation) HideDetails() error                   { return nil }
func (nopPresentation) DetailsVisible() bool                 { return false }
