// Command fetch downloads real daily weather observations from the NASA
// POWER API for a fixed location and date range and writes them in the same
// date/value CSV shape the synthetic dataset uses. Each parameter is fetched
// independently: a network failure on one is logged and skipped without
// affecting the others.
//
// Usage:
//
//	go run ./cmd/fetch -out data/observed
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/enviro-series/internal/adapter/power"
	"github.com/couchcryptid/enviro-series/internal/config"
	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
)

// fetchDef maps a POWER parameter code onto an output file and column.
type fetchDef struct {
	param  string
	file   string
	column string
}

var defs = []fetchDef{
	{param: "T2M", file: "temperature_observed.csv", column: "temperature_c"},
	{param: "RH2M", file: "humidity_observed.csv", column: "relative_humidity_pct"},
	{param: "WS10M", file: "wind_speed_observed.csv", column: "wind_speed_ms"},
	{param: "PRECTOTCORR", file: "precipitation_observed.csv", column: "precipitation_mm"},
}

func main() {
	if err := run(); err != nil {
		slog.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	outDir := flag.String("out", filepath.Join(cfg.OutputDir, "observed"), "output directory for observation CSVs")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	client := power.NewClient(cfg.PowerTimeout, logger, metrics)
	logger.Info("fetching POWER observations",
		"lat", cfg.PowerLatitude, "lon", cfg.PowerLongitude,
		"start", cfg.PowerStart.Format(domain.DateLayout),
		"end", cfg.PowerEnd.Format(domain.DateLayout),
	)

	ctx := context.Background()
	fetched := 0
	for _, d := range defs {
		samples, err := client.FetchDaily(ctx, d.param, cfg.PowerLatitude, cfg.PowerLongitude, cfg.PowerStart, cfg.PowerEnd)
		if err != nil {
			// One failed parameter must not abort its siblings.
			logger.Error("parameter fetch failed, skipping", "parameter", d.param, "error", err)
			continue
		}

		path := filepath.Join(*outDir, d.file)
		if err := domain.WriteColumnCSV(path, d.column, samples, false); err != nil {
			return fmt.Errorf("%s: %w", d.param, err)
		}
		logger.Info("parameter fetched", "parameter", d.param, "days", len(samples), "file", path)
		fetched++
	}

	if cfg.PushgatewayURL != "" {
		if err := observability.PushMetrics(cfg.PushgatewayURL, "enviro_series_fetch", metrics); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	if fetched == 0 {
		return fmt.Errorf("all %d parameter fetches failed", len(defs))
	}
	logger.Info("fetch complete", "fetched", fetched, "total", len(defs))
	return nil
}
