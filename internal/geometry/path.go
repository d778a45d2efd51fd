// Package geometry turns a pair of coordinates into an animation path and
// derives icon headings from consecutive path points.
//
// Paths are planar interpolations, not great-circle routes. Flights get a
// cosmetic sine-shaped bulge in latitude that is zero at both endpoints and
// largest at the midpoint.
package geometry

import (
	"math"

	"github.com/mobil-koeln/roamly/internal/models"
)

const (
	// DefaultSteps is the number of path segments generated per journey.
	DefaultSteps = 200

	// DefaultCurveFactor scales the flight bulge relative to the longitude span.
	DefaultCurveFactor = 0.15
)

// PathPoints returns steps+1 points from start to end. A non-positive step
// count is treated as 1. The first point is exactly start and the last is
// exactly end.
func PathPoints(start, end models.Coordinate, kind models.VehicleKind, steps int, curveFactor float64) []models.Coordinate {
	if steps <= 0 {
		steps = 1
	}

	dLat := end.Lat - start.Lat
	dLng := end.Lng - start.Lng
	curve := 0.0
	if kind == models.KindPlane {
		curve = dLng * curveFactor
	}

	points := make([]models.Coordinate, steps+1)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		lat := start.Lat + dLat*f
		lng := start.Lng + dLng*f
		if curve != 0 {
			lat += math.Sin(math.Pi*f) * curve
		}
		points[i] = models.Coordinate{Lat: lat, Lng: lng}
	}

	// sin(pi) and a+(b-a) are not exact in floating point
	points[0] = start
	points[steps] = end

	return points
}

// Rotation returns the icon heading in degrees for travel from p1 to p2.
// An icon facing +longitude is at 0 degrees before rotation, so due east
// yields 90 and due north yields 0. Identical points yield exactly 90.
func Rotation(p1, p2 models.Coordinate) float64 {
	dy := p2.Lat - p1.Lat
	dx := p2.Lng - p1.Lng
	if dy == 0 && dx == 0 {
		return 90
	}
	return 90 - math.Atan2(dy, dx)*180/math.Pi
}

// Interpolate returns the point at fraction t along the segment a->b.
func Interpolate(a, b models.Coordinate, t float64) models.Coordinate {
	return models.Coordinate{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// Bounds is an axis-aligned lat/lng box.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundsOf returns the box enclosing all points. ok is false when points is empty.
func BoundsOf(points ...models.Coordinate) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// Extend grows the box to include p.
func (b Bounds) Extend(p models.Coordinate) Bounds {
	b.MinLat = math.Min(b.MinLat, p.Lat)
	b.MaxLat = math.Max(b.MaxLat, p.Lat)
	b.MinLng = math.Min(b.MinLng, p.Lng)
	b.MaxLng = math.Max(b.MaxLng, p.Lng)
	return b
}

// Center returns the midpoint of the box.
func (b Bounds) Center() models.Coordinate {
	return models.Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// Pad expands the box by the given fraction of its span on every side.
func (b Bounds) Pad(fraction float64) Bounds {
	latPad := (b.MaxLat - b.MinLat) * fraction
	lngPad := (b.MaxLng - b.MinLng) * fraction
	return Bounds{
		MinLat: b.MinLat - latPad, MaxLat: b.MaxLat + latPad,
		MinLng: b.MinLng - lngPad, MaxLng: b.MaxLng + lngPad,
	}
}
