// Package config loads command settings from environment variables,
// applying defaults where unset. Commands layer flags on top for per-run
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all command settings.
type Config struct {
	OutputDir       string
	Seed            uint64
	StartDate       time.Time
	HorizonDays     int
	ProfilePath     string // optional YAML generation profile override
	ConstraintsPath string // optional YAML constraints override

	LogLevel       string
	LogFormat      string
	PushgatewayURL string // optional; metrics pushed after a run when set

	// NASA POWER fetch settings.
	PowerLatitude  float64
	PowerLongitude float64
	PowerStart     time.Time
	PowerEnd       time.Time
	PowerTimeout   time.Duration
}

const dateLayout = "2006-01-02"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	seed, err := parseUint("SEED", 42)
	if err != nil {
		return nil, err
	}

	horizon, err := parseInt("HORIZON_DAYS", 100)
	if err != nil {
		return nil, err
	}
	if horizon < 1 || horizon > 366 {
		return nil, fmt.Errorf("HORIZON_DAYS must be in [1, 366], got %d", horizon)
	}

	startDate, err := parseDate("START_DATE", "2023-01-01")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("POWER_LATITUDE", 61.06)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("POWER_LATITUDE %g outside [-90, 90]", lat)
	}
	lon, err := parseFloat("POWER_LONGITUDE", 28.19)
	if err != nil {
		return nil, err
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("POWER_LONGITUDE %g outside [-180, 180]", lon)
	}

	powerStart, err := parseDate("POWER_START", "2025-01-01")
	if err != nil {
		return nil, err
	}
	powerEnd, err := parseDate("POWER_END", "2025-04-30")
	if err != nil {
		return nil, err
	}
	if powerEnd.Before(powerStart) {
		return nil, errors.New("POWER_END is before POWER_START")
	}

	timeoutStr := envOrDefault("POWER_TIMEOUT", "60s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid POWER_TIMEOUT")
	}

	cfg := &Config{
		OutputDir:       envOrDefault("OUTPUT_DIR", "data"),
		Seed:            seed,
		StartDate:       startDate,
		HorizonDays:     horizon,
		ProfilePath:     os.Getenv("PROFILE_PATH"),
		ConstraintsPath: os.Getenv("CONSTRAINTS_PATH"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		PowerLatitude:   lat,
		PowerLongitude:  lon,
		PowerStart:      powerStart,
		PowerEnd:        powerEnd,
		PowerTimeout:    timeout,
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseUint(key string, def uint64) (uint64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDate(key, def string) (time.Time, error) {
	s := os.Getenv(key)
	if s == "" {
		s = def
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}
