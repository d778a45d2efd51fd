package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mobil-koeln/roamly/internal/config"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/internal/testutil"
)

// resetFlags restores the package level flag values after a test
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		flagData, flagSteps, flagDuration, flagCurve = "", 0, 0, 0
		flagDatabaseURL, flagNATSURL, flagMetricsAddr = "", "", ""
		flagNoCache = false
	})
}

func TestFilterState(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		year    string
		wantErr bool
		match   []int
	}{
		{"no filters", "", "", false, []int{1, 2, 3}},
		{"kind", "train", "", false, []int{2}},
		{"kind case insensitive", "PLANE", "", false, []int{1}},
		{"year", "", "2023", false, []int{1, 3}},
		{"kind and year", "car", "2023", false, []int{3}},
		{"no match", "train", "2023", false, nil},
		{"bad kind", "boat", "", true, nil},
		{"bad year", "", "23", true, nil},
		{"year not numeric", "", "abcd", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := filterState(tt.kind, tt.year)
			if tt.wantErr {
				testutil.AssertError(t, err)
				return
			}
			testutil.AssertNil(t, err)

			var got []int
			for _, d := range testutil.SampleDestinations() {
				if s.Matches(d) {
					got = append(got, d.ID)
				}
			}
			testutil.AssertLen(t, got, len(tt.match))
			for i := range got {
				testutil.AssertEqual(t, got[i], tt.match[i])
			}
		})
	}
}

func TestFilterState_InvalidKindWrapsSentinel(t *testing.T) {
	_, err := filterState("boat", "")
	testutil.AssertTrue(t, errors.Is(err, models.ErrInvalidKind))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, id, 42)

	_, err = parseID("malta")
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "invalid destination id")
}

func TestApplyFlags(t *testing.T) {
	resetFlags(t)

	cfg := &config.Config{DataSource: config.DefaultDataSource, Journey: journey.DefaultOptions()}
	applyFlags(cfg)
	testutil.AssertEqual(t, cfg.DataSource, config.DefaultDataSource)
	testutil.AssertEqual(t, cfg.Journey, journey.DefaultOptions())

	flagData = "trips.json"
	flagSteps = 50
	flagDuration = 4 * time.Second
	flagCurve = -0.5
	flagDatabaseURL = "postgres://localhost/roamly"
	flagNATSURL = "nats://localhost:4222"
	flagMetricsAddr = ":9090"
	applyFlags(cfg)

	testutil.AssertEqual(t, cfg.DataSource, "trips.json")
	testutil.AssertEqual(t, cfg.Journey.StepCount, 50)
	testutil.AssertEqual(t, cfg.Journey.Duration, 4*time.Second)
	testutil.AssertFloatEqual(t, cfg.Journey.CurveFactor, -0.5, 1e-9)
	testutil.AssertEqual(t, cfg.DatabaseURL, "postgres://localhost/roamly")
	testutil.AssertEqual(t, cfg.NATSURL, "nats://localhost:4222")
	testutil.AssertEqual(t, cfg.MetricsAddr, ":9090")
}

func TestHeadings(t *testing.T) {
	points := []models.Coordinate{
		models.LatLng(0, 0),
		models.LatLng(0, 1),
		models.LatLng(1, 1),
	}
	got := headings(points)
	testutil.AssertLen(t, got, 3)
	testutil.AssertFloatEqual(t, got[0].Heading, 90, 1e-9)
	testutil.AssertFloatEqual(t, got[1].Heading, 0, 1e-9)
	// last point keeps the previous heading
	testutil.AssertFloatEqual(t, got[2].Heading, 0, 1e-9)
	testutil.AssertFloatEqual(t, got[2].Lat, 1, 1e-9)

	testutil.AssertLen(t, headings(nil), 0)
}

func TestNewLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	logger, closeFn, err := newLogger(cfg, &buf)
	testutil.AssertNil(t, err)
	defer closeFn()

	logger.Info("hello", "destination", 1)
	logger.Debug("hidden")
	testutil.AssertContains(t, buf.String(), "msg=hello")
	testutil.AssertContains(t, buf.String(), "destination=1")
	testutil.AssertNotContains(t, buf.String(), "hidden")
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "roam.log")
	cfg := &config.Config{LogFile: path}

	logger, closeFn, err := newLogger(cfg, nil)
	testutil.AssertNil(t, err)
	logger.Warn("written to file")
	closeFn()

	data, err := os.ReadFile(path)
	testutil.AssertNil(t, err)
	testutil.AssertContains(t, string(data), "written to file")
}

func TestNewLogger_NoFile(t *testing.T) {
	logger, closeFn, err := newLogger(&config.Config{}, nil)
	testutil.AssertNil(t, err)
	defer closeFn()
	testutil.AssertFalse(t, logger.Enabled(context.Background(), 12))
}

func TestOpenRepository_JSON(t *testing.T) {
	resetFlags(t)
	flagNoCache = true

	path := filepath.Join(t.TempDir(), "destinations.json")
	testutil.AssertNil(t, os.WriteFile(path, []byte(testutil.SampleDestinationsJSON), 0o644))

	cfg := &config.Config{DataSource: path}
	repo, closeFn, err := openRepository(context.Background(), cfg, nil)
	testutil.AssertNil(t, err)
	defer closeFn()

	_, ok := repo.(*repository.JSONStore)
	testutil.AssertTrue(t, ok)

	d, err := loadDestination(context.Background(), repo, 3)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, d.Name, "Gdańsk")

	_, err = loadDestination(context.Background(), repo, 99)
	testutil.AssertTrue(t, errors.Is(err, repository.ErrNotFound))
	testutil.AssertContains(t, err.Error(), "destination 99")
}

func TestOpenRepository_MissingFile(t *testing.T) {
	resetFlags(t)
	flagNoCache = true

	cfg := &config.Config{DataSource: filepath.Join(t.TempDir(), "missing.json")}
	repo, closeFn, err := openRepository(context.Background(), cfg, nil)
	testutil.AssertNil(t, err)
	defer closeFn()

	_, err = loadDestination(context.Background(), repo, 1)
	testutil.AssertError(t, err)
}

func TestNewObservers_NoneConfigured(t *testing.T) {
	observers, shutdown, err := newObservers(&config.Config{Journey: journey.DefaultOptions()}, nil)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, observers, 0)
	shutdown()
}

func TestArrivalWatch(t *testing.T) {
	w := newArrivalWatch()
	d := testutil.Malta()

	w.PhaseChanged(journey.Idle, journey.Preparing, &d)
	w.PhaseChanged(journey.Moving, journey.Arrived, &d)
	select {
	case <-w.done:
		t.Fatal("done closed before details")
	default:
	}

	w.PhaseChanged(journey.Arrived, journey.Details, &d)
	// a second journey must not close twice
	w.PhaseChanged(journey.Arrived, journey.Details, &d)
	select {
	case <-w.done:
	default:
		t.Fatal("done not closed after details")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNil(t, writeJSON(&buf, headings([]models.Coordinate{models.LatLng(1, 2)})))

	var got []pathPoint
	testutil.AssertNil(t, json.Unmarshal(buf.Bytes(), &got))
	testutil.AssertLen(t, got, 1)
	testutil.AssertFloatEqual(t, got[0].Lng, 2, 1e-9)
	testutil.AssertContains(t, buf.String(), "\n  ")
}
