// Package filter narrows the destination set by year and vehicle kind.
//
// Groups combine with AND; values within a group combine with OR. An empty
// group does not constrain the result.
package filter

import (
	"slices"
	"strings"

	"github.com/mobil-koeln/roamly/internal/models"
)

// State is the set of active filter values
type State struct {
	Years []string
	Kinds []models.VehicleKind
}

// Empty reports whether no filter is active
func (s State) Empty() bool {
	return len(s.Years) == 0 && len(s.Kinds) == 0
}

// Matches reports whether d passes every active group
func (s State) Matches(d models.Destination) bool {
	if len(s.Years) > 0 && !slices.ContainsFunc(s.Years, func(y string) bool {
		return strings.Contains(d.Date, y)
	}) {
		return false
	}
	if len(s.Kinds) > 0 && !slices.Contains(s.Kinds, d.Kind) {
		return false
	}
	return true
}

// Apply returns the destinations matching s, in their original order
func Apply(ds []models.Destination, s State) []models.Destination {
	out := make([]models.Destination, 0, len(ds))
	for _, d := range ds {
		if s.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Years returns the distinct years found in the date labels, sorted
func Years(ds []models.Destination) []string {
	var years []string
	for _, d := range ds {
		if y := d.Year(); y != "" && !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}

// Panel holds the filter state for a destination set and notifies a
// listener with the filtered subset whenever it changes
type Panel struct {
	destinations []models.Destination
	state        State
	collapsed    bool
	onChange     func([]models.Destination)
}

// NewPanel creates an empty Panel
func NewPanel() *Panel {
	return &Panel{}
}

// SetDestinations replaces the destination set. Active filter values are kept.
func (p *Panel) SetDestinations(ds []models.Destination) {
	p.destinations = append([]models.Destination(nil), ds...)
}

// Destinations returns the unfiltered set
func (p *Panel) Destinations() []models.Destination {
	return append([]models.Destination(nil), p.destinations...)
}

// OnChange registers the change listener, replacing any previous one
func (p *Panel) OnChange(fn func([]models.Destination)) {
	p.onChange = fn
}

// Years returns the selectable years
func (p *Panel) Years() []string {
	return Years(p.destinations)
}

// Kinds returns the selectable vehicle kinds
func (p *Panel) Kinds() []models.VehicleKind {
	return models.VehicleKinds
}

// ToggleYear flips the year filter and notifies the listener
func (p *Panel) ToggleYear(year string) {
	p.state.Years = toggle(p.state.Years, year)
	p.notify()
}

// ToggleKind flips the vehicle kind filter and notifies the listener
func (p *Panel) ToggleKind(kind models.VehicleKind) {
	p.state.Kinds = toggle(p.state.Kinds, kind)
	p.notify()
}

// YearActive reports whether year is selected
func (p *Panel) YearActive(year string) bool {
	return slices.Contains(p.state.Years, year)
}

// KindActive reports whether kind is selected
func (p *Panel) KindActive(kind models.VehicleKind) bool {
	return slices.Contains(p.state.Kinds, kind)
}

// Reset clears both groups and notifies the listener
func (p *Panel) Reset() {
	p.state = State{}
	p.notify()
}

// State returns a copy of the active filter values
func (p *Panel) State() State {
	return State{
		Years: slices.Clone(p.state.Years),
		Kinds: slices.Clone(p.state.Kinds),
	}
}

// Filtered returns the destinations passing the active filters
func (p *Panel) Filtered() []models.Destination {
	return Apply(p.destinations, p.state)
}

// ToggleCollapsed flips the collapsed flag and returns the new value
func (p *Panel) ToggleCollapsed() bool {
	p.collapsed = !p.collapsed
	return p.collapsed
}

// Collapsed reports whether the panel is collapsed
func (p *Panel) Collapsed() bool {
	return p.collapsed
}

func (p *Panel) notify() {
	if p.onChange != nil {
		p.onChange(p.Filtered())
	}
}

func toggle[T comparable](values []T, v T) []T {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, v)
}
