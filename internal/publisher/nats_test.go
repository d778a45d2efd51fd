package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mobil-koeln/roamly/internal/animation"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/testutil"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

type fakeMetrics struct {
	published, errs, observed int
	connected                 bool
}

func (m *fakeMetrics) NATSPublishedInc()            { m.published++ }
func (m *fakeMetrics) NATSPublishErrInc()           { m.errs++ }
func (m *fakeMetrics) PublishObserve(time.Duration) { m.observed++ }
func (m *fakeMetrics) NATSSetConnected(c bool)      { m.connected = c }

func TestSubjectToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"  frame ", "frame"},
		{"a.b", "a_b"},
		{"x>*/y", "x___y"},
		{"", "_"},
		{"   ", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			testutil.AssertEqual(t, subjectToken(tt.in), tt.want)
		})
	}
}

func TestSubject(t *testing.T) {
	testutil.AssertEqual(t, Subject("7", "frame"), "roamly.journey.7.frame")
	testutil.AssertEqual(t, Subject("a.b", "phase"), "roamly.journey.a_b.phase")
}

func TestPublisher_Frame(t *testing.T) {
	nc := &fakeConn{}
	m := &fakeMetrics{}
	p := newPublisher(nc, WithMetrics(m))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	d := testutil.Malta()
	p.Frame(d, animation.Frame{
		Position: models.LatLng(40, 15),
		Heading:  -160,
		Progress: 0.75,
		Trail:    []models.Coordinate{models.LatLng(41, 16), models.LatLng(40, 15)},
	})

	testutil.AssertLen(t, nc.msgs, 1)
	testutil.AssertEqual(t, nc.msgs[0].subject, "roamly.journey.1.frame")

	var msg FrameMessage
	testutil.AssertNil(t, json.Unmarshal(nc.msgs[0].data, &msg))
	testutil.AssertEqual(t, msg.DestinationID, 1)
	testutil.AssertEqual(t, msg.Kind, "plane")
	testutil.AssertEqual(t, msg.TrailLength, 2)
	testutil.AssertFloatEqual(t, msg.Progress, 0.75, 1e-9)
	testutil.AssertFloatEqual(t, msg.Heading, -160, 1e-9)

	testutil.AssertEqual(t, m.published, 1)
	testutil.AssertEqual(t, m.observed, 1)
}

func TestPublisher_PhaseChanged(t *testing.T) {
	nc := &fakeConn{}
	p := newPublisher(nc)

	d := testutil.Krakow()
	p.PhaseChanged(journey.Idle, journey.Preparing, &d)
	p.PhaseChanged(journey.Details, journey.Idle, nil)

	testutil.AssertLen(t, nc.msgs, 2)
	testutil.AssertEqual(t, nc.msgs[0].subject, "roamly.journey.2.phase")
	testutil.AssertEqual(t, nc.msgs[1].subject, "roamly.journey.none.phase")

	var msg PhaseMessage
	testutil.AssertNil(t, json.Unmarshal(nc.msgs[0].data, &msg))
	testutil.AssertEqual(t, msg.From, "idle")
	testutil.AssertEqual(t, msg.To, "preparing")
	testutil.AssertEqual(t, msg.Name, "Kraków")
}

func TestPublisher_SelectionRejected(t *testing.T) {
	nc := &fakeConn{}
	p := newPublisher(nc)
	p.SelectionRejected(testutil.Gdansk(), journey.Moving)

	testutil.AssertLen(t, nc.msgs, 1)
	testutil.AssertEqual(t, nc.msgs[0].subject, "roamly.journey.3.rejected")
	testutil.AssertContains(t, string(nc.msgs[0].data), `"phase":"moving"`)
}

func TestPublisher_PublishError(t *testing.T) {
	nc := &fakeConn{err: errors.New("connection closed")}
	m := &fakeMetrics{}
	p := newPublisher(nc, WithMetrics(m))

	p.Frame(testutil.Malta(), animation.Frame{Progress: 0.1})

	testutil.AssertEqual(t, m.errs, 1)
	testutil.AssertEqual(t, m.published, 0)
}

func TestPublisher_NilConn(t *testing.T) {
	p := newPublisher(nil)
	p.Frame(testutil.Malta(), animation.Frame{})
	p.Close()
}

func TestPublisher_ImplementsObserver(t *testing.T) {
	var _ journey.Observer = newPublisher(nil)
}
