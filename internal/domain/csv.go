package domain

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// WriteColumnCSV persists samples as a two-column date/value CSV. Integer
// columns are written without a fraction; float columns use the shortest
// representation that round-trips to the identical bits.
func WriteColumnCSV(path, column string, samples []Sample, integer bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", column}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, smp := range samples {
		row := []string{smp.Date.Format(DateLayout), formatValue(smp.Value, integer)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", row[0], err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// ReadColumnCSV loads a two-column date/value CSV, validating the header.
func ReadColumnCSV(path, column string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	if rows[0][0] != "date" || rows[0][1] != column {
		return nil, fmt.Errorf("%s: unexpected header %v, want [date %s]", path, rows[0], column)
	}

	samples := make([]Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		date, err := time.Parse(DateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad date %q: %w", path, i+2, row[0], err)
		}
		val, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad value %q: %w", path, i+2, row[1], err)
		}
		samples = append(samples, Sample{Date: date, Value: val})
	}
	return samples, nil
}

// WriteDataset persists all four series into dir, one CSV per variable.
func WriteDataset(dir string, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, s := range d.All() {
		spec := s.Variable.Spec()
		path := filepath.Join(dir, spec.FileName)
		if err := WriteColumnCSV(path, spec.Column, s.Samples, spec.Integer); err != nil {
			return fmt.Errorf("%s: %w", s.Variable, err)
		}
	}
	return nil
}

// ReadDataset loads all four series from dir and validates their alignment.
func ReadDataset(dir string) (*Dataset, error) {
	d := &Dataset{}
	for _, v := range Variables() {
		spec := v.Spec()
		samples, err := ReadColumnCSV(filepath.Join(dir, spec.FileName), spec.Column)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		s := &Series{Variable: v, Samples: samples}
		switch v {
		case Temperature:
			d.Temperature = s
		case AirQuality:
			d.AirQuality = s
		case CO2:
			d.CO2 = s
		case Precipitation:
			d.Precipitation = s
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func formatValue(v float64, integer bool) string {
	if integer {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
