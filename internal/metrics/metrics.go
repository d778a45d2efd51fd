// Package metrics exposes journey and telemetry counters to Prometheus.
package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
)

// Collector owns a private registry. It implements journey.Observer and the
// publisher's metrics hooks.
type Collector struct {
	reg *prometheus.Registry
	now func() time.Time

	JourneysStarted    *prometheus.CounterVec // kind
	JourneysCompleted  *prometheus.CounterVec // kind
	JourneysCancelled  *prometheus.CounterVec // phase the journey was abandoned in
	SelectionsRejected prometheus.Counter
	CollaboratorErrs   *prometheus.CounterVec // op

	Frames   prometheus.Counter
	Phase    prometheus.Gauge
	Progress prometheus.Gauge

	JourneyDuration prometheus.Histogram

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	StepCount    prometheus.Gauge
	DurationSecs prometheus.Gauge

	startedAt time.Time
}

// NewCollector registers every metric and records the static settings
func NewCollector(opts journey.Options) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		now: time.Now,
		JourneysStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roamly_journeys_started_total",
			Help: "Journeys that entered the preparing phase.",
		}, []string{"kind"}),
		JourneysCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roamly_journeys_completed_total",
			Help: "Journeys that reached the details phase.",
		}, []string{"kind"}),
		JourneysCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roamly_journeys_cancelled_total",
			Help: "Journeys reset before reaching details.",
		}, []string{"phase"}),
		SelectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roamly_selections_rejected_total",
			Help: "Selections ignored because a journey was in flight.",
		}),
		CollaboratorErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roamly_collaborator_errors_total",
			Help: "View or presentation calls that failed.",
		}, []string{"op"}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roamly_animation_frames_total",
			Help: "Animation frames emitted.",
		}),
		Phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roamly_journey_phase",
			Help: "Current phase: 0 idle, 1 preparing, 2 moving, 3 arrived, 4 details.",
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roamly_journey_progress",
			Help: "Animation progress of the current journey in [0,1].",
		}),
		JourneyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roamly_journey_duration_seconds",
			Help:    "Time from selection to detail reveal.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roamly_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roamly_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roamly_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roamly_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		StepCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roamly_path_steps",
			Help: "Configured path segments per journey.",
		}),
		DurationSecs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roamly_animation_duration_seconds",
			Help: "Configured animation duration.",
		}),
	}

	reg.MustRegister(
		c.JourneysStarted, c.JourneysCompleted, c.JourneysCancelled,
		c.SelectionsRejected, c.CollaboratorErrs,
		c.Frames, c.Phase, c.Progress, c.JourneyDuration,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.StepCount, c.DurationSecs,
	)

	c.StepCount.Set(float64(opts.StepCount))
	c.DurationSecs.Set(opts.Duration.Seconds())

	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on addr
func (c *Collector) Serve(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", addr)
	return srv
}

// PhaseChanged implements journey.Observer
func (c *Collector) PhaseChanged(from, to journey.Phase, d *models.Destination) {
	c.Phase.Set(float64(to))
	kind := ""
	if d != nil {
		kind = string(d.Kind)
	}

	switch to {
	case journey.Preparing:
		c.startedAt = c.now()
		c.Progress.Set(0)
		c.JourneysStarted.WithLabelValues(kind).Inc()
	case journey.Details:
		c.JourneysCompleted.WithLabelValues(kind).Inc()
		if !c.startedAt.IsZero() {
			c.JourneyDuration.Observe(c.now().Sub(c.startedAt).Seconds())
		}
	case journey.Idle:
		if from != journey.Details {
			c.JourneysCancelled.WithLabelValues(from.String()).Inc()
		}
		c.Progress.Set(0)
		c.startedAt = time.Time{}
	}
}

// SelectionRejected implements journey.Observer
func (c *Collector) SelectionRejected(models.Destination, journey.Phase) {
	c.SelectionsRejected.Inc()
}

// Frame implements journey.Observer
func (c *Collector) Frame(_ models.Destination, f animation.Frame) {
	c.Frames.Inc()
	c.Progress.Set(f.Progress)
}

// CollaboratorFailed implements journey.Observer
func (c *Collector) CollaboratorFailed(op string, _ error) {
	c.CollaboratorErrs.WithLabelValues(op).Inc()
}

func (c *Collector) NATSPublishedInc()              { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()             { c.NATSPublishErrs.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}
