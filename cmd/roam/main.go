package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mobil-koeln/roamly/internal/config"
	"github.com/mobil-koeln/roamly/internal/filter"
	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/metrics"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/output"
	"github.com/mobil-koeln/roamly/internal/publisher"
	"github.com/mobil-koeln/roamly/internal/repository"
	"github.com/mobil-koeln/roamly/internal/tui"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "roam",
	Short: "Animated travel journal for the terminal",
	Long: `roam is a travel journal that replays past trips as animated journeys
on a terminal map.

Features:
  - Curved flight arcs and straight rail and road routes
  - Filter trips by year and by vehicle
  - Destination details with description, image and video links
  - Destinations from a JSON file, an http(s) URL or Postgres
  - GeoJSON export of routes for other map tools
  - Prometheus metrics and NATS journey events

Quick Start:
  1. Launch TUI:               roam (or roam tui)
  2. List destinations:        roam list --kind plane
  3. Print a route:            roam path 2 --every 10
  4. Replay a journey:         roam play 2
  5. Load trips into Postgres: roam migrate && roam import`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagData        string
	flagSteps       int
	flagDuration    time.Duration
	flagCurve       float64
	flagDatabaseURL string
	flagNATSURL     string
	flagMetricsAddr string
	flagColor       string
	flagNoCache     bool
)

// Command flags
var (
	flagKind    string
	flagYear    string
	flagJSON    bool
	flagGeoJSON bool
	flagEvery   int
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)

	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Destinations file or http(s) URL (default $ROAMLY_DATA or destinations.json)")
	rootCmd.PersistentFlags().IntVar(&flagSteps, "steps", 0, "Number of path segments per journey")
	rootCmd.PersistentFlags().DurationVar(&flagDuration, "duration", 0, "Journey animation duration, e.g. 2.5s")
	rootCmd.PersistentFlags().Float64Var(&flagCurve, "curve", 0, "Curve factor for flight arcs")
	rootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "db", "", "Postgres URL; destinations are read from the database when set")
	rootCmd.PersistentFlags().StringVar(&flagNATSURL, "nats-url", "", "Publish journey events to this NATS server")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Disable caching of remote destination documents")

	listCmd.Flags().StringVarP(&flagKind, "kind", "k", "", "Only show one vehicle kind (plane, train, car)")
	listCmd.Flags().StringVarP(&flagYear, "year", "y", "", "Only show destinations visited in this year")
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&flagGeoJSON, "geojson", false, "Output as a GeoJSON FeatureCollection")

	pathCmd.Flags().IntVarP(&flagEvery, "every", "e", 1, "Print every nth point (the last point is always printed)")
	pathCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	pathCmd.Flags().BoolVar(&flagGeoJSON, "geojson", false, "Output as a GeoJSON FeatureCollection")
}

// loadConfig reads the environment and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if flagData != "" {
		cfg.DataSource = flagData
	}
	if flagSteps > 0 {
		cfg.Journey.StepCount = flagSteps
	}
	if flagDuration > 0 {
		cfg.Journey.Duration = flagDuration
	}
	if flagCurve != 0 {
		cfg.Journey.CurveFactor = flagCurve
	}
	if flagDatabaseURL != "" {
		cfg.DatabaseURL = flagDatabaseURL
	}
	if flagNATSURL != "" {
		cfg.NATSURL = flagNATSURL
	}
	if flagMetricsAddr != "" {
		cfg.MetricsAddr = flagMetricsAddr
	}
}

// getColorMode returns the color mode based on flag
func getColorMode() output.ColorMode {
	return output.ParseColorMode(flagColor)
}

// newLogger returns a text logger writing to w, or to cfg.LogFile when w is
// nil. The TUI owns the terminal, so it logs to the file.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, func(), error) {
	closeFn := func() {}
	if w == nil {
		if cfg.LogFile == "" {
			return slog.New(slog.DiscardHandler), closeFn, nil
		}
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(h), closeFn, nil
}

// openRepository picks Postgres when a database URL is configured and the
// JSON document otherwise
func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Repository, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPostgresStore(pool), pool.Close, nil
	}

	opts := []repository.Option{repository.WithLogger(logger)}
	// Enable caching unless disabled
	if !flagNoCache {
		opts = append(opts, repository.WithDefaultCache())
	}
	return repository.NewJSONStore(cfg.DataSource, opts...), func() {}, nil
}

// newObservers starts the optional metrics endpoint and NATS publisher.
// The returned shutdown func stops both.
func newObservers(cfg *config.Config, logger *slog.Logger) ([]journey.Observer, func(), error) {
	var (
		observers []journey.Observer
		closers   []func()
		collector *metrics.Collector
	)
	shutdown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector(cfg.Journey)
		srv := collector.Serve(cfg.MetricsAddr, logger)
		observers = append(observers, collector)
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	if cfg.NATSURL != "" {
		opts := []publisher.Option{publisher.WithLogger(logger)}
		if collector != nil {
			opts = append(opts, publisher.WithMetrics(collector))
		}
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, opts...)
		if err != nil {
			shutdown()
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		observers = append(observers, pub)
		closers = append(closers, pub.Close)
	}

	return observers, shutdown, nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive map.

Pick a destination from the list to replay the journey there. The camera
frames the route, the vehicle travels along it and the destination card
opens on arrival.

Keyboard shortcuts:
  j/k, ↑/↓     Move through destinations
  Enter        Start the journey
  Esc          Close the card / abandon the journey
  Tab          Switch between list and filters
  Space        Toggle a filter
  a            Clear all filters
  c            Collapse the filter panel
  /            Search destinations
  q            Quit`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, closeRepo, err := openRepository(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	observers, shutdown, err := newObservers(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	model := tui.New(repo,
		tui.WithLogger(logger),
		tui.WithJourneyOptions(cfg.Journey),
		tui.WithObserver(journey.Observers(observers...)))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List destinations",
	Long: `List all destinations with their vehicle, visit date and route.

Examples:
  roam list
  roam list --kind train --year 2023
  roam list --geojson > trips.geojson`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	state, err := filterState(flagKind, flagYear)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	ds, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	ds = filter.Apply(ds, state)

	switch {
	case flagGeoJSON:
		return output.WriteGeoJSON(os.Stdout, output.DestinationFeatures(ds))
	case flagJSON:
		return writeJSON(os.Stdout, ds)
	}

	output.RenderDestinations(os.Stdout, ds, output.TableOptions{
		Colors: output.NewColors(getColorMode()),
	})
	return nil
}

// filterState turns the --kind and --year flags into a filter
func filterState(kind, year string) (filter.State, error) {
	var s filter.State
	if kind != "" {
		k, err := models.ParseVehicleKind(kind)
		if err != nil {
			return s, err
		}
		s.Kinds = []models.VehicleKind{k}
	}
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
			return s, fmt.Errorf("invalid year: %q", year)
		}
		s.Years = []string{year}
	}
	return s, nil
}

var pathCmd = &cobra.Command{
	Use:   "path <id>",
	Short: "Print the route to a destination",
	Long: `Print the points a journey travels through, with the vehicle heading
at each point. Flights follow a curved arc, trains and cars a straight line.

Examples:
  roam path 1
  roam path 1 --steps 50 --every 5
  roam path 1 --geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runPath,
}

// pathPoint is the JSON form of one route point
type pathPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Heading float64 `json:"heading"`
}

func runPath(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	d, err := loadDestination(ctx, repo, id)
	if err != nil {
		return err
	}
	points := geometry.PathPoints(d.Start, d.End, d.Kind, cfg.Journey.StepCount, cfg.Journey.CurveFactor)

	switch {
	case flagGeoJSON:
		return output.WriteGeoJSON(os.Stdout, output.PathFeatures(d, points))
	case flagJSON:
		return writeJSON(os.Stdout, headings(points))
	}

	output.RenderPath(os.Stdout, d, points, output.TableOptions{
		Colors: output.NewColors(getColorMode()),
		Every:  flagEvery,
	})
	return nil
}

// headings pairs each point with the bearing toward the next one. The last
// point keeps the previous heading.
func headings(points []models.Coordinate) []pathPoint {
	out := make([]pathPoint, len(points))
	heading := 0.0
	for i, p := range points {
		if i+1 < len(points) {
			heading = geometry.Rotation(p, points[i+1])
		}
		out[i] = pathPoint{Lat: p.Lat, Lng: p.Lng, Heading: heading}
	}
	return out
}

// loadDestination loads the store and returns one destination
func loadDestination(ctx context.Context, repo repository.Repository, id int) (models.Destination, error) {
	if _, err := repo.Load(ctx); err != nil {
		return models.Destination{}, err
	}
	d, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.Destination{}, fmt.Errorf("destination %d: %w", id, err)
	}
	return d, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid destination id: %q", s)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
