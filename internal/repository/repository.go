// Package repository loads and edits the destination set. Adapters exist
// for a JSON document (local file or HTTP URL) and for Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mobil-koeln/roamly/internal/models"
)

var (
	// ErrNotFound indicates no destination has the requested id
	ErrNotFound = errors.New("destination not found")

	// ErrNotLoaded indicates the store was read before Load succeeded
	ErrNotLoaded = errors.New("destinations not loaded")

	// ErrDuplicateID indicates a destination with the same id already exists
	ErrDuplicateID = errors.New("duplicate destination id")
)

// Repository is the destination store
type Repository interface {
	// Load reads the full destination set from the backing source
	Load(ctx context.Context) ([]models.Destination, error)
	List(ctx context.Context) ([]models.Destination, error)
	GetByID(ctx context.Context, id int) (models.Destination, error)
	ByKind(ctx context.Context, kind models.VehicleKind) ([]models.Destination, error)
	// Add inserts d, failing with ErrDuplicateID if its id is taken
	Add(ctx context.Context, d models.Destination) error
	// Remove deletes the destination and reports whether it existed
	Remove(ctx context.Context, id int) (bool, error)
	// Update applies a partial update and returns the result
	Update(ctx context.Context, id int, p Patch) (models.Destination, error)
}

// Patch is a partial destination update. Nil fields are left unchanged.
type Patch struct {
	Kind        *models.VehicleKind
	Start       *models.Coordinate
	End         *models.Coordinate
	Name        *string
	Date        *string
	Description *string
	ImageURL    *string
	VideoURL    *string
}

// Apply returns d with the patch applied
func (p Patch) Apply(d models.Destination) models.Destination {
	if p.Kind != nil {
		d.Kind = *p.Kind
	}
	if p.Start != nil {
		d.Start = *p.Start
	}
	if p.End != nil {
		d.End = *p.End
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.ImageURL != nil {
		d.ImageURL = *p.ImageURL
	}
	if p.VideoURL != nil {
		d.VideoURL = *p.VideoURL
	}
	return d
}

// Validate checks the patched fields
func (p Patch) Validate() error {
	if p.Kind != nil {
		if _, err := models.ParseVehicleKind(string(*p.Kind)); err != nil {
			return models.NewValidationError("type", err.Error())
		}
	}
	if p.Name != nil && *p.Name == "" {
		return models.ErrMissingField("name")
	}
	if p.Start != nil && !p.Start.IsFinite() {
		return models.ErrInvalidValue("start", *p.Start)
	}
	if p.End != nil && !p.End.IsFinite() {
		return models.ErrInvalidValue("coords", *p.End)
	}
	return nil
}

// FetchError is returned when a remote destinations document cannot be
// retrieved
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is implements errors.Is for FetchError
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

var (
	_ Repository = (*JSONStore)(nil)
	_ Repository = (*PostgresStore)(nil)
)
