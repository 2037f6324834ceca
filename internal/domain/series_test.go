package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeSeries builds a contiguous daily series starting at start.
func makeTestSeries(v Variable, start time.Time, vals ...float64) *Series {
	samples := make([]Sample, len(vals))
	for i, val := range vals {
		samples[i] = Sample{Date: start.AddDate(0, 0, i), Value: val}
	}
	return &Series{Variable: v, Samples: samples}
}

func TestVariableSpecs(t *testing.T) {
	for _, v := range Variables() {
		spec := v.Spec()
		assert.NotEmpty(t, spec.FileName, v)
		assert.NotEmpty(t, spec.Column, v)
		assert.True(t, v.Valid())
	}
	assert.True(t, AirQuality.Spec().Integer)
	assert.False(t, Temperature.Spec().Integer)
	assert.False(t, Variable("humidity").Valid())
}

func TestSeriesMonthSlicing(t *testing.T) {
	// Jan 30 through Feb 2.
	s := makeTestSeries(Temperature, date(2023, time.January, 30), 1, 2, 3, 4)

	jan := s.MonthValues(time.January)
	feb := s.MonthValues(time.February)
	assert.Equal(t, []float64{1, 2}, jan)
	assert.Equal(t, []float64{3, 4}, feb)
	assert.Empty(t, s.MonthValues(time.March))

	both := s.MonthRangeValues(time.January, time.February)
	assert.Equal(t, []float64{1, 2, 3, 4}, both)
}

func TestDatasetValidate(t *testing.T) {
	start := date(2023, time.January, 1)
	valid := func() *Dataset {
		return &Dataset{
			Temperature:   makeTestSeries(Temperature, start, 1, 2, 3),
			AirQuality:    makeTestSeries(AirQuality, start, 40, 50, 60),
			CO2:           makeTestSeries(CO2, start, 410, 411, 412),
			Precipitation: makeTestSeries(Precipitation, start, 0, 0.2, 0),
		}
	}

	t.Run("valid dataset", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing series", func(t *testing.T) {
		ds := valid()
		ds.CO2 = nil
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "co2")
	})

	t.Run("length mismatch", func(t *testing.T) {
		ds := valid()
		ds.Precipitation = makeTestSeries(Precipitation, start, 0, 0.2)
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not aligned")
	})

	t.Run("shifted dates", func(t *testing.T) {
		ds := valid()
		ds.AirQuality = makeTestSeries(AirQuality, start.AddDate(0, 0, 1), 40, 50, 60)
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "diverge")
	})

	t.Run("date gap", func(t *testing.T) {
		ds := valid()
		ds.Temperature.Samples[2].Date = start.AddDate(0, 0, 5)
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not contiguous")
	})

	t.Run("empty series", func(t *testing.T) {
		ds := valid()
		ds.AirQuality = &Series{Variable: AirQuality}
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestDatasetAccessors(t *testing.T) {
	start := date(2023, time.January, 1)
	ds := &Dataset{
		Temperature:   makeTestSeries(Temperature, start, 1, 2),
		AirQuality:    makeTestSeries(AirQuality, start, 40, 50),
		CO2:           makeTestSeries(CO2, start, 410, 411),
		Precipitation: makeTestSeries(Precipitation, start, 0, 0),
	}

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []time.Time{start, start.AddDate(0, 0, 1)}, ds.Dates())
	assert.Same(t, ds.CO2, ds.Series(CO2))
	assert.Nil(t, ds.Series(Variable("humidity")))
	assert.Len(t, ds.All(), 4)
}
