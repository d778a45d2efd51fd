package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/internal/schedule"
	"github.com/mobil-koeln/roamly/internal/testutil"
)

type stubView struct {
	markers []models.Destination
	fits    int
	settled func()
}

func (v *stubView) FitToRoute(_, _ models.Coordinate, _ journey.ZoomOptions, settled func()) error {
	v.settled = settled
	return nil
}

func (v *stubView) FitToAll([]models.Destination, journey.ZoomOptions) error {
	v.fits++
	return nil
}

func (v *stubView) ZoomTo(models.Coordinate, int, journey.ZoomOptions) error { return nil }
func (v *stubView) AddMarker(models.Destination) error                     { return nil }
func (v *stubView) RemoveMarker(int) error                                 { return nil }

func (v *stubView) UpdateMarkers(ds []models.Destination) error {
	v.markers = append([]models.Destination(nil), ds...)
	return nil
}

func (v *stubView) CreatePath(journey.PathStyle) error   { return nil }
func (v *stubView) UpdatePath([]models.Coordinate) error { return nil }

func (v *stubView) MoveVehicle(models.VehicleKind, models.Coordinate, float64) error { return nil }

func (v *stubView) Land() error       { return nil }
func (v *stubView) ClearRoute() error { return nil }

type stubPresentation struct {
	status  journey.Status
	details *models.Destination
}

func (p *stubPresentation) SetStatus(s journey.Status) error { p.status = s; return nil }

func (p *stubPresentation) ShowDetails(d models.Destination) error {
	p.details = &d
	return nil
}

func (p *stubPresentation) HideDetails() error   { p.details = nil; return nil }
func (p *stubPresentation) DetailsVisible() bool { return p.details != nil }

type fixture struct {
	app  *App
	m    *schedule.Manual
	view *stubView
	pres *stubPresentation
	repo *repository.JSONStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		m:    schedule.NewManual(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		view: &stubView{},
		pres: &stubPresentation{},
		repo: repository.NewMemoryStore(testutil.SampleDestinations()),
	}
	ctrl := journey.NewController(f.m, f.view, f.pres)
	f.app = New(f.repo, ctrl, f.view, f.pres)
	testutil.AssertNil(t, f.app.Initialize(context.Background()))
	return f
}

func TestApp_Initialize(t *testing.T) {
	f := newFixture(t)
	testutil.AssertLen(t, f.view.markers, 3)
	testutil.AssertEqual(t, f.view.fits, 1)
	testutil.AssertEqual(t, f.pres.status, journey.IdleStatus)

	err := f.app.Initialize(context.Background())
	testutil.AssertTrue(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestApp_InitializeLoadError(t *testing.T) {
	repo := repository.NewJSONStore("/definitely/missing.json")
	m := schedule.NewManual(time.Now())
	a := New(repo, journey.NewController(m, nil, nil), &stubView{}, &stubPresentation{})
	testutil.AssertError(t, a.Initialize(context.Background()))

	_, err := a.Select(context.Background(), 1)
	testutil.AssertTrue(t, errors.Is(err, ErrNotInitialized))
}

func TestApp_SelectAndClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.app.Select(ctx, 2)
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, ok)
	testutil.AssertLen(t, f.view.markers, 1)

	ok, err = f.app.Select(ctx, 1)
	testutil.AssertNil(t, err)
	testutil.AssertFalse(t, ok)

	f.m.Advance(10 * time.Second)
	testutil.AssertTrue(t, f.pres.DetailsVisible())

	testutil.AssertTrue(t, f.app.Close())
	testutil.AssertLen(t, f.view.markers, 3)
	testutil.AssertEqual(t, f.view.fits, 2)
}

func TestApp_SelectUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Select(context.Background(), 77)
	testutil.AssertTrue(t, errors.Is(err, repository.ErrNotFound))
}

func TestApp_FilterChange(t *testing.T) {
	f := newFixture(t)
	f.app.Panel().ToggleKind(models.KindTrain)
	testutil.AssertLen(t, f.view.markers, 1)
	testutil.AssertLen(t, f.app.Visible(), 1)

	f.app.Panel().Reset()
	testutil.AssertLen(t, f.view.markers, 3)
}

func TestApp_FilterChangeDuringDetailsOnlyRecords(t *testing.T) {
	f := newFixture(t)
	_, _ = f.app.Select(context.Background(), 1)
	f.m.Advance(10 * time.Second)
	testutil.AssertTrue(t, f.pres.DetailsVisible())
	testutil.AssertLen(t, f.view.markers, 1)

	f.app.Panel().ToggleKind(models.KindCar)
	testutil.AssertLen(t, f.view.markers, 1)
	testutil.AssertEqual(t, f.view.markers[0].ID, 1)

	// closing restores the recorded subset
	f.app.Close()
	testutil.AssertLen(t, f.view.markers, 1)
	testutil.AssertEqual(t, f.view.markers[0].ID, 3)
}

func TestApp_AddUpdateRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gozo := testutil.Malta()
	gozo.ID = 10
	gozo.Name = "Gozo"
	testutil.AssertNil(t, f.app.AddDestination(ctx, gozo))
	testutil.AssertLen(t, f.view.markers, 4)

	err := f.app.AddDestination(ctx, gozo)
	testutil.AssertTrue(t, errors.Is(err, repository.ErrDuplicateID))

	name := "Gozo Island"
	d, err := f.app.UpdateDestination(ctx, 10, repository.Patch{Name: &name})
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, d.Name, name)

	removed, err := f.app.RemoveDestination(ctx, 10)
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, removed)
	testutil.AssertLen(t, f.view.markers, 3)

	removed, err = f.app.RemoveDestination(ctx, 10)
	testutil.AssertNil(t, err)
	testutil.AssertFalse(t, removed)
}

func TestApp_RemoveActiveDestinationResets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.app.Select(ctx, 3)
	f.view.settled()
	f.m.Advance(time.Second)
	testutil.AssertTrue(t, f.app.Controller().IsAnimating())

	_, err := f.app.RemoveDestination(ctx, 3)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, f.app.Controller().State().Phase, journey.Idle)
	testutil.AssertLen(t, f.view.markers, 2)
}

func TestApp_Destroy(t *testing.T) {
	f := newFixture(t)
	f.app.Destroy()
	_, err := f.app.Select(context.Background(), 1)
	testutil.AssertTrue(t, errors.Is(err, ErrNotInitialized))
}
