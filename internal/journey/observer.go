package journey

import (
	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/models"
)

// Observer receives journey lifecycle events. Callbacks run on the
// controller's scheduling thread and must not block.
type Observer interface {
	PhaseChanged(from, to Phase, d *models.Destination)
	SelectionRejected(d models.Destination, current Phase)
	Frame(d models.Destination, f animation.Frame)
	CollaboratorFailed(op string, err error)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) PhaseChanged(Phase, Phase, *models.Destination) {}
func (NopObserver) SelectionRejected(models.Destination, Phase)    {}
func (NopObserver) Frame(models.Destination, animation.Frame)      {}
func (NopObserver) CollaboratorFailed(string, error)               {}

type multiObserver []Observer

// Observers fans events out to every non-nil observer in order
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) PhaseChanged(from, to Phase, d *models.Destination) {
	for _, o := range m {
		o.PhaseChanged(from, to, d)
	}
}

func (m multiObserver) SelectionRejected(d models.Destination, current Phase) {
	for _, o := range m {
		o.SelectionRejected(d, current)
	}
}

func (m multiObserver) Frame(d models.Destination, f animation.Frame) {
	for _, o := range m {
		o.Frame(d, f)
	}
}

func (m multiObserver) CollaboratorFailed(op string, err error) {
	for _, o := range m {
		o.CollaboratorFailed(op, err)
	}
}
