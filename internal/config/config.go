// Package config reads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mobil-koeln/roamly/internal/journey"
)

// DefaultDataSource is used when ROAMLY_DATA is unset
const DefaultDataSource = "destinations.json"

// Config holds every runtime setting
type Config struct {
	// DataSource is a file path or http(s) URL of the destinations document
	DataSource string
	Journey    journey.Options

	DatabaseURL string
	NATSURL     string
	MetricsAddr string

	LogLevel slog.Level
	LogFile  string
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		DataSource:  getenvDefault("ROAMLY_DATA", DefaultDataSource),
		Journey:     journey.DefaultOptions(),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		NATSURL:     os.Getenv("NATS_URL"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogFile:     getenvDefault("LOG_FILE", defaultLogFile()),
	}

	var err error
	if cfg.Journey.StepCount, err = intEnv("ROAMLY_STEPS", cfg.Journey.StepCount, 1); err != nil {
		return nil, err
	}
	if cfg.Journey.Duration, err = msEnv("ROAMLY_DURATION_MS", cfg.Journey.Duration); err != nil {
		return nil, err
	}
	if cfg.Journey.SettleDelay, err = msEnv("ROAMLY_SETTLE_DELAY_MS", cfg.Journey.SettleDelay); err != nil {
		return nil, err
	}
	if cfg.Journey.ArrivalDelay, err = msEnv("ROAMLY_ARRIVAL_DELAY_MS", cfg.Journey.ArrivalDelay); err != nil {
		return nil, err
	}
	if cfg.Journey.SettleTimeout, err = msEnv("ROAMLY_SETTLE_TIMEOUT_MS", cfg.Journey.SettleTimeout); err != nil {
		return nil, err
	}
	if cfg.Journey.LandingGrace, err = msEnv("ROAMLY_LANDING_GRACE_MS", cfg.Journey.LandingGrace); err != nil {
		return nil, err
	}

	if v := os.Getenv("ROAMLY_CURVE_FACTOR"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ROAMLY_CURVE_FACTOR: %q", v)
		}
		cfg.Journey.CurveFactor = f
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %q", v)
		}
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def, min int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return n, nil
}

// msEnv parses a non-negative millisecond count
func msEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func defaultLogFile() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "roamly", "roam.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "roamly", "roam.log")
}
