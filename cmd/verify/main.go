// Command verify independently recomputes every declared constraint from the
// persisted series files and reports pass/fail per constraint plus an
// overall verdict. Exits 1 when any constraint fails or the input files are
// missing or misaligned.
//
// Usage:
//
//	go run ./cmd/verify -data data
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/enviro-series/internal/config"
	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
	"github.com/couchcryptid/enviro-series/internal/verify"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	dataDir := flag.String("data", cfg.OutputDir, "directory containing the series CSV files")
	constraintsPath := flag.String("constraints", cfg.ConstraintsPath, "optional YAML constraints override")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	constraints := verify.DefaultConstraints()
	if *constraintsPath != "" {
		constraints, err = verify.LoadConstraints(*constraintsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	ds, err := domain.ReadDataset(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}
	if !verify.MonthsCovered(ds, constraints) {
		fmt.Fprintf(os.Stderr, "FATAL: dataset horizon does not cover every month the constraints reference\n")
		return 1
	}

	if manifest, err := domain.ReadManifest(*dataDir); err == nil {
		logger.Info("verifying dataset",
			"dir", *dataDir,
			"seed", manifest.Seed,
			"horizon_days", manifest.HorizonDays,
			"generated_at", manifest.GeneratedAt,
		)
	} else {
		logger.Info("verifying dataset without manifest", "dir", *dataDir)
	}

	report := verify.New(constraints, logger, metrics).Verify(ds)
	report.Render(os.Stdout)

	if cfg.PushgatewayURL != "" {
		if err := observability.PushMetrics(cfg.PushgatewayURL, "enviro_series_verify", metrics); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	if !report.Passed() {
		return 1
	}
	return 0
}
