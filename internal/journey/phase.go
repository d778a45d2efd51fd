package journey

import "github.com/mobil-koeln/roamly/internal/models"

// Phase is one step of a journey's lifecycle
type Phase int

const (
	Idle Phase = iota
	Preparing
	Moving
	Arrived
	Details
)

var phaseNames = [...]string{"idle", "preparing", "moving", "arrived", "details"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// State is a snapshot of the controller's journey state
type State struct {
	Phase       Phase
	Destination *models.Destination
	// Generation increments on every new journey and every reset
	Generation uint64
	Progress   float64
}

// Active reports whether a journey is in flight
func (s State) Active() bool {
	return s.Phase != Idle
}
