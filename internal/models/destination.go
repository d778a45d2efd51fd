package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// VehicleKind is the means of transport used to reach a destination
type VehicleKind string

const (
	KindPlane VehicleKind = "plane"
	KindTrain VehicleKind = "train"
	KindCar   VehicleKind = "car"
)

// VehicleKinds lists every supported kind in display order
var VehicleKinds = []VehicleKind{KindPlane, KindTrain, KindCar}

// ParseVehicleKind parses a kind name (case-insensitive)
func ParseVehicleKind(s string) (VehicleKind, error) {
	switch VehicleKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPlane:
		return KindPlane, nil
	case KindTrain:
		return KindTrain, nil
	case KindCar:
		return KindCar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Label returns a human readable name for the kind
func (k VehicleKind) Label() string {
	switch k {
	case KindPlane:
		return "Plane"
	case KindTrain:
		return "Train"
	case KindCar:
		return "Car"
	}
	return string(k)
}

// Coordinate is a point on the map in decimal degrees.
// It is encoded in JSON as a two-element [lat, lng] array.
type Coordinate struct {
	Lat float64
	Lng float64
}

// LatLng builds a Coordinate
func LatLng(lat, lng float64) Coordinate {
	return Coordinate{Lat: lat, Lng: lng}
}

// IsFinite reports whether both components are finite numbers
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

// String formats the coordinate as "lat,lng"
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

// MarshalJSON encodes the coordinate as [lat, lng]
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

// UnmarshalJSON decodes a [lat, lng] pair
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be a [lat, lng] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// Destination is a single trip shown on the map
type Destination struct {
	ID          int         `json:"id"`
	Kind        VehicleKind `json:"type"`
	Start       Coordinate  `json:"start"`
	End         Coordinate  `json:"coords"`
	Name        string      `json:"name"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	VideoURL    string      `json:"videoUrl,omitempty"`
}

var yearRegex = regexp.MustCompile(`\d{4}`)

// Year returns the first four-digit group of the date label, or "" if none
func (d Destination) Year() string {
	return yearRegex.FindString(d.Date)
}

// DestinationRecord is the persisted shape of a destination
type DestinationRecord struct {
	ID          *int            `json:"id"`
	Type        string          `json:"type"`
	Start       json.RawMessage `json:"start"`
	Coords      json.RawMessage `json:"coords"`
	Name        string          `json:"name"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	VideoURL    string          `json:"videoUrl"`
}

// DestinationsFile is the top-level document holding all destinations
type DestinationsFile struct {
	Destinations []DestinationRecord `json:"destinations"`
}

// ToDestination validates the record and converts it to a Destination
func (r *DestinationRecord) ToDestination() (*Destination, error) {
	if r.ID == nil {
		return nil, ErrMissingField("id")
	}
	kind, err := ParseVehicleKind(r.Type)
	if err != nil {
		return nil, NewValidationError("type", err.Error())
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, ErrMissingField("name")
	}

	start, err := decodeCoordinate("start", r.Start)
	if err != nil {
		return nil, err
	}
	end, err := decodeCoordinate("coords", r.Coords)
	if err != nil {
		return nil, err
	}

	return &Destination{
		ID:          *r.ID,
		Kind:        kind,
		Start:       start,
		End:         end,
		Name:        name,
		Date:        r.Date,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
	}, nil
}

func decodeCoordinate(field string, raw json.RawMessage) (Coordinate, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Coordinate{}, ErrMissingField(field)
	}
	var c Coordinate
	if err := json.Unmarshal(raw, &c); err != nil {
		return Coordinate{}, NewValidationError(field, err.Error())
	}
	if !c.IsFinite() {
		return Coordinate{}, ErrInvalidValue(field, c)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return Coordinate{}, ErrInvalidValue(field, c)
	}
	return c, nil
}

// ParseDestinations decodes a destinations document. Record ids must be unique.
func ParseDestinations(data []byte) ([]Destination, error) {
	var file DestinationsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse destinations: %w", err)
	}

	seen := make(map[int]bool, len(file.Destinations))
	out := make([]Destination, 0, len(file.Destinations))
	for i := range file.Destinations {
		d, err := file.Destinations[i].ToDestination()
		if err != nil {
			return nil, fmt.Errorf("destination #%d: %w", i, err)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("destination #%d: %w", i, ErrInvalidValue("id", d.ID))
		}
		seen[d.ID] = true
		out = append(out, *d)
	}
	return out, nil
}
