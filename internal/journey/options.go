package journey

import (
	"time"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/geometry"
)

// Options are the journey timing and geometry knobs
type Options struct {
	StepCount    int
	Duration     time.Duration
	CurveFactor  float64
	SettleDelay  time.Duration
	ArrivalDelay time.Duration
	// SettleTimeout starts the animation when the camera never reports settled
	SettleTimeout time.Duration
	// LandingGrace is the pause after the final frame before arrival
	LandingGrace time.Duration
	DetailsZoom  int
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		StepCount:     geometry.DefaultSteps,
		Duration:      2500 * time.Millisecond,
		CurveFactor:   geometry.DefaultCurveFactor,
		SettleDelay:   200 * time.Millisecond,
		ArrivalDelay:  500 * time.Millisecond,
		SettleTimeout: 1500 * time.Millisecond,
		LandingGrace:  animation.DefaultGrace,
		DetailsZoom:   DetailsZoomLevel,
	}
}

// normalized fills zero or negative values that have no meaning with defaults
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.StepCount <= 0 {
		o.StepCount = def.StepCount
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.ArrivalDelay < 0 {
		o.ArrivalDelay = 0
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = def.SettleTimeout
	}
	if o.LandingGrace < 0 {
		o.LandingGrace = 0
	}
	if o.DetailsZoom <= 0 {
		o.DetailsZoom = def.DetailsZoom
	}
	return o
}
