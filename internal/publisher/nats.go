// Package publisher streams journey telemetry to NATS.
package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
)

// SubjectPrefix roots every subject this package publishes on
const SubjectPrefix = "roamly.journey"

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

// conn is the slice of *nats.Conn the publisher needs
type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements journey.Observer. Publish failures are logged and
// counted but never reach the controller.
type NATSPublisher struct {
	nc          conn
	closer      func()
	logger      *slog.Logger
	logSubjects bool
	metrics     PublisherMetrics
	now         func() time.Time
}

// Option configures a NATSPublisher
type Option func(*NATSPublisher)

func WithLogger(l *slog.Logger) Option {
	return func(p *NATSPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m PublisherMetrics) Option {
	return func(p *NATSPublisher) { p.metrics = m }
}

// WithSubjectLogging logs every subject at debug level
func WithSubjectLogging() Option {
	return func(p *NATSPublisher) { p.logSubjects = true }
}

func NewNATSPublisher(url string, opts ...Option) (*NATSPublisher, error) {
	p := newPublisher(nil, opts...)
	nc, err := nats.Connect(url,
		nats.Name("roamly"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			p.setConnected(false)
			p.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			p.setConnected(true)
			p.logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			p.setConnected(false)
			p.logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	p.nc = nc
	p.closer = func() {
		_ = nc.Drain()
		nc.Close()
	}
	p.setConnected(true)
	return p, nil
}

func newPublisher(nc conn, opts ...Option) *NATSPublisher {
	p := &NATSPublisher{
		nc:     nc,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *NATSPublisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// FrameMessage is published on roamly.journey.<id>.frame
type FrameMessage struct {
	DestinationID int       `json:"destinationId"`
	Kind          string    `json:"kind"`
	Timestamp     time.Time `json:"timestamp"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	Heading       float64   `json:"heading"`
	Progress      float64   `json:"progress"`
	TrailLength   int       `json:"trailLength"`
}

// PhaseMessage is published on roamly.journey.<id>.phase
type PhaseMessage struct {
	DestinationID int       `json:"destinationId,omitempty"`
	Name          string    `json:"name,omitempty"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Timestamp     time.Time `json:"timestamp"`
}

// RejectionMessage is published on roamly.journey.<id>.rejected
type RejectionMessage struct {
	DestinationID int       `json:"destinationId"`
	Phase         string    `json:"phase"`
	Timestamp     time.Time `json:"timestamp"`
}

// PhaseChanged implements journey.Observer. Transitions without a
// destination go to the "none" token.
func (p *NATSPublisher) PhaseChanged(from, to journey.Phase, d *models.Destination) {
	msg := PhaseMessage{From: from.String(), To: to.String(), Timestamp: p.now().UTC()}
	id := "none"
	if d != nil {
		msg.DestinationID = d.ID
		msg.Name = d.Name
		id = strconv.Itoa(d.ID)
	}
	p.publish(Subject(id, "phase"), msg)
}

// SelectionRejected implements journey.Observer
func (p *NATSPublisher) SelectionRejected(d models.Destination, current journey.Phase) {
	p.publish(Subject(strconv.Itoa(d.ID), "rejected"), RejectionMessage{
		DestinationID: d.ID,
		Phase:         current.String(),
		Timestamp:     p.now().UTC(),
	})
}

// Frame implements journey.Observer
func (p *NATSPublisher) Frame(d models.Destination, f animation.Frame) {
	p.publish(Subject(strconv.Itoa(d.ID), "frame"), FrameMessage{
		DestinationID: d.ID,
		Kind:          string(d.Kind),
		Timestamp:     p.now().UTC(),
		Lat:           f.Position.Lat,
		Lng:           f.Position.Lng,
		Heading:       f.Heading,
		Progress:      f.Progress,
		TrailLength:   len(f.Trail),
	})
}

func (p *NATSPublisher) CollaboratorFailed(string, error) {}

func (p *NATSPublisher) publish(subject string, msg any) {
	if p.nc == nil {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("marshal message", "subject", subject, "error", err)
		return
	}
	if p.logSubjects {
		p.logger.Debug("nats publish", "subject", subject)
	}
	start := p.now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(p.now().Sub(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	if err != nil {
		p.logger.Warn("nats publish failed", "subject", subject, "error", err)
	}
}

func (p *NATSPublisher) setConnected(connected bool) {
	if p.metrics != nil {
		p.metrics.NATSSetConnected(connected)
	}
}

// Subject builds roamly.journey.<id>.<event> with both tokens sanitized
func Subject(id, event string) string {
	return SubjectPrefix + "." + subjectToken(id) + "." + subjectToken(event)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
