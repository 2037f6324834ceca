package domain

import (
	"fmt"
	"time"
)

// Variable identifies one of the four environmental series.
type Variable string

const (
	Temperature   Variable = "temperature"
	AirQuality    Variable = "air_quality"
	CO2           Variable = "co2"
	Precipitation Variable = "precipitation"
)

// Variables returns all variables in their fixed dataset order.
func Variables() []Variable {
	return []Variable{Temperature, AirQuality, CO2, Precipitation}
}

// VariableSpec fixes the persistence identifiers and value shape of a variable.
type VariableSpec struct {
	FileName string // CSV file name inside the dataset directory
	Column   string // value column header
	Unit     string
	Integer  bool // values are integer-valued (written without a fraction)
}

var variableSpecs = map[Variable]VariableSpec{
	Temperature:   {FileName: "temperature.csv", Column: "temperature_c", Unit: "°C"},
	AirQuality:    {FileName: "air_quality.csv", Column: "aqi", Unit: "index", Integer: true},
	CO2:           {FileName: "co2.csv", Column: "co2_ppm", Unit: "ppm"},
	Precipitation: {FileName: "precipitation.csv", Column: "precipitation_mm", Unit: "mm"},
}

// Spec returns the persistence spec for the variable.
func (v Variable) Spec() VariableSpec {
	return variableSpecs[v]
}

// Valid reports whether v is one of the four known variables.
func (v Variable) Valid() bool {
	_, ok := variableSpecs[v]
	return ok
}

// Sample is a single daily reading.
type Sample struct {
	Date  time.Time
	Value float64
}

// Series is the chronologically ordered daily readings of one variable.
// It is mutable only during generation; both the generator and the verifier
// treat a finished series as immutable.
type Series struct {
	Variable Variable
	Samples  []Sample
}

// Values returns the sample values in chronological order.
func (s *Series) Values() []float64 {
	vals := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		vals[i] = smp.Value
	}
	return vals
}

// Month returns the samples falling in the given calendar month.
func (s *Series) Month(m time.Month) []Sample {
	var out []Sample
	for _, smp := range s.Samples {
		if smp.Date.Month() == m {
			out = append(out, smp)
		}
	}
	return out
}

// MonthValues returns the values falling in the given calendar month.
func (s *Series) MonthValues(m time.Month) []float64 {
	samples := s.Month(m)
	vals := make([]float64, len(samples))
	for i, smp := range samples {
		vals[i] = smp.Value
	}
	return vals
}

// MonthRangeValues returns the values for months from..to inclusive.
func (s *Series) MonthRangeValues(from, to time.Month) []float64 {
	var vals []float64
	for _, smp := range s.Samples {
		if m := smp.Date.Month(); m >= from && m <= to {
			vals = append(vals, smp.Value)
		}
	}
	return vals
}

// checkContiguous verifies the samples form a daily sequence with no gaps.
func (s *Series) checkContiguous() error {
	for i := 1; i < len(s.Samples); i++ {
		prev, cur := s.Samples[i-1].Date, s.Samples[i].Date
		if !cur.Equal(prev.AddDate(0, 0, 1)) {
			return fmt.Errorf("%s: dates not contiguous: %s followed by %s",
				s.Variable, prev.Format(DateLayout), cur.Format(DateLayout))
		}
	}
	return nil
}

// DateLayout is the ISO-8601 date format used in CSV files and errors.
const DateLayout = "2006-01-02"

// Dataset is the four aligned series of one generated run.
type Dataset struct {
	Temperature   *Series
	AirQuality    *Series
	CO2           *Series
	Precipitation *Series
}

// Series returns the series for the given variable, or nil for an unknown one.
func (d *Dataset) Series(v Variable) *Series {
	switch v {
	case Temperature:
		return d.Temperature
	case AirQuality:
		return d.AirQuality
	case CO2:
		return d.CO2
	case Precipitation:
		return d.Precipitation
	default:
		return nil
	}
}

// All returns the four series in dataset order.
func (d *Dataset) All() []*Series {
	return []*Series{d.Temperature, d.AirQuality, d.CO2, d.Precipitation}
}

// Dates returns the shared date index.
func (d *Dataset) Dates() []time.Time {
	if d.Temperature == nil {
		return nil
	}
	dates := make([]time.Time, len(d.Temperature.Samples))
	for i, smp := range d.Temperature.Samples {
		dates[i] = smp.Date
	}
	return dates
}

// Len returns the horizon length in days.
func (d *Dataset) Len() int {
	if d.Temperature == nil {
		return 0
	}
	return len(d.Temperature.Samples)
}

// Validate checks that all four series are present, non-empty, contiguous,
// and aligned on the identical date sequence.
func (d *Dataset) Validate() error {
	for _, v := range Variables() {
		s := d.Series(v)
		if s == nil {
			return fmt.Errorf("dataset missing %s series", v)
		}
		if len(s.Samples) == 0 {
			return fmt.Errorf("%s series is empty", v)
		}
		if err := s.checkContiguous(); err != nil {
			return err
		}
	}

	ref := d.Temperature
	for _, s := range d.All()[1:] {
		if len(s.Samples) != len(ref.Samples) {
			return fmt.Errorf("%s has %d samples, %s has %d: date ranges not aligned",
				s.Variable, len(s.Samples), ref.Variable, len(ref.Samples))
		}
		for i := range s.Samples {
			if !s.Samples[i].Date.Equal(ref.Samples[i].Date) {
				return fmt.Errorf("%s and %s diverge at row %d: %s vs %s",
					s.Variable, ref.Variable, i,
					s.Samples[i].Date.Format(DateLayout), ref.Samples[i].Date.Format(DateLayout))
			}
		}
	}
	return nil
}
