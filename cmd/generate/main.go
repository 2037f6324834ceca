// Command generate produces the synthetic environmental dataset: four daily
// series engineered so the declared statistical constraints hold, persisted
// as one CSV per variable plus a run manifest. It prints the observed
// statistics afterwards so constraint tuning stays auditable.
//
// Usage:
//
//	go run ./cmd/generate -out data -seed 42 -horizon 100
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/enviro-series/internal/config"
	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/generate"
	"github.com/couchcryptid/enviro-series/internal/observability"
	"github.com/couchcryptid/enviro-series/internal/profile"
	"github.com/couchcryptid/enviro-series/internal/stats"
	"github.com/couchcryptid/enviro-series/internal/verify"
)

func main() {
	if err := run(); err != nil {
		slog.Error("generate failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	outDir := flag.String("out", cfg.OutputDir, "output directory for CSV files")
	seed := flag.Uint64("seed", cfg.Seed, "random seed")
	startStr := flag.String("start", cfg.StartDate.Format(domain.DateLayout), "start date (YYYY-MM-DD)")
	horizon := flag.Int("horizon", cfg.HorizonDays, "horizon length in days")
	profilePath := flag.String("profile", cfg.ProfilePath, "optional YAML generation profile override")
	flag.Parse()

	start, err := time.Parse(domain.DateLayout, *startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	prof := profile.Default()
	if *profilePath != "" {
		prof, err = profile.Load(*profilePath)
		if err != nil {
			return err
		}
		logger.Info("loaded profile override", "path", *profilePath)
	}

	gen := generate.New(prof, logger, metrics)
	ds, err := gen.Generate(start, *horizon, *seed)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}

	if err := domain.WriteDataset(*outDir, ds); err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	if err := domain.WriteManifest(*outDir, domain.NewManifest(*seed, start, *horizon)); err != nil {
		return err
	}
	logger.Info("dataset persisted", "dir", *outDir)

	printStats(ds)

	if cfg.PushgatewayURL != "" {
		if err := observability.PushMetrics(cfg.PushgatewayURL, "enviro_series_generate", metrics); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}
	return nil
}

// printStats recomputes the headline statistics from the generated data.
// This is diagnostic output for tuning; the authoritative pass/fail verdict
// comes from cmd/verify on the persisted files.
func printStats(ds *domain.Dataset) {
	c := verify.DefaultConstraints()

	fmt.Println("\n=== Observed statistics ===")

	fmt.Printf("\n%s variance:\n", c.VolatileMonth)
	for _, s := range ds.All() {
		fmt.Printf("  %-14s %8.2f\n", s.Variable, stats.Variance(s.MonthValues(c.VolatileMonth)))
	}

	fmt.Printf("\n%s correlation with temperature:\n", c.CoupledMonth)
	temps := ds.Temperature.MonthValues(c.CoupledMonth)
	for _, s := range []*domain.Series{ds.AirQuality, ds.CO2, ds.Precipitation} {
		corr, err := stats.Pearson(temps, s.MonthValues(c.CoupledMonth))
		if err != nil {
			fmt.Printf("  %-14s error: %v\n", s.Variable, err)
			continue
		}
		fmt.Printf("  %-14s r=%6.3f  p=%.4f\n", s.Variable, corr.R, corr.P)
	}

	idx, maxVal := stats.MaxEarliest(ds.AirQuality.Values())
	fmt.Printf("\nmaximum AQI: %g on %s\n", maxVal, ds.AirQuality.Samples[idx].Date.Format(domain.DateLayout))

	fmt.Printf("\n%s-%s trend (day-index OLS):\n", c.TrendFromMonth, c.TrendToMonth)
	for _, s := range ds.All() {
		trend, err := stats.LinearTrend(s.MonthRangeValues(c.TrendFromMonth, c.TrendToMonth))
		if err != nil {
			fmt.Printf("  %-14s error: %v\n", s.Variable, err)
			continue
		}
		fmt.Printf("  %-14s slope=%8.4f  R²=%.3f\n", s.Variable, trend.Slope, trend.R2)
	}

	precip := ds.Precipitation.MonthValues(c.JointMonth)
	aqi := ds.AirQuality.MonthValues(c.JointMonth)
	count, err := stats.CountJoint(precip, aqi, c.PrecipThreshold, c.AQIThreshold)
	if err == nil {
		fmt.Printf("\n%s days with precipitation>%gmm AND aqi>%g: %d\n",
			c.JointMonth, c.PrecipThreshold, c.AQIThreshold, count)
	}
}
