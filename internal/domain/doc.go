// Package domain models the synthetic environmental dataset: four daily
// time series over a fixed horizon, their tabular persistence, and the
// alignment rules shared by the generator and the verifier.
//
// # Dataset Shape
//
// One dataset covers a contiguous run of calendar days (the horizon,
// 100 days by default, starting January 1). Each day carries exactly one
// reading per variable:
//
//	temperature    °C      continuous, non-negative
//	air_quality    index   integer-valued score, floored at a minimum level
//	co2            ppm     continuous, clamped to a realistic band
//	precipitation  mm      continuous, non-negative, mostly near zero
//
// # Persistence
//
// Each series is persisted as its own CSV file with a two-column header:
//
//	date,<column>
//	2023-01-01,5.8231
//
// Dates are ISO-8601 (YYYY-MM-DD) in chronological order, one row per day.
// Filenames and column names are fixed per variable (see [Variable.Spec]) so
// the generator and verifier never have to negotiate identifiers. Float
// values are written with the shortest representation that parses back to
// the identical bits; air quality values are written as plain integers.
// Reloading a persisted series therefore reproduces the in-memory values
// exactly.
//
// # Alignment
//
// The verifier joins the four files on the date column. A dataset is valid
// only when every series covers the identical contiguous date sequence;
// anything else (a missing file, a gap, a shifted range) is a terminal
// data-shape error, never silently realigned.
//
// # Run Manifest
//
// Alongside the CSVs the generator writes manifest.json recording the seed,
// start date, horizon, and generation timestamp, so a dataset on disk can
// always be traced back to the parameters that produced it.
package domain
