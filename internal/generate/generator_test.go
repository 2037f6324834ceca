package generate

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
	"github.com/couchcryptid/enviro-series/internal/profile"
)

var testStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(profile.Default(), logger, observability.NewMetrics())
}

func TestGenerateShape(t *testing.T) {
	g := newTestGenerator(t)

	ds, err := g.Generate(testStart, 100, 42)
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, 100, ds.Len())
	for _, s := range ds.All() {
		require.Len(t, s.Samples, 100)
		assert.Equal(t, testStart, s.Samples[0].Date)
		assert.Equal(t, testStart.AddDate(0, 0, 99), s.Samples[99].Date)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := newTestGenerator(t)

	a, err := g.Generate(testStart, 100, 42)
	require.NoError(t, err)
	b, err := g.Generate(testStart, 100, 42)
	require.NoError(t, err)

	for _, v := range domain.Variables() {
		assert.Equal(t, a.Series(v).Values(), b.Series(v).Values(), "variable %s", v)
	}

	c, err := g.Generate(testStart, 100, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Temperature.Values(), c.Temperature.Values())
}

func TestGenerateValueRanges(t *testing.T) {
	g := newTestGenerator(t)
	ds, err := g.Generate(testStart, 120, 7)
	require.NoError(t, err)

	for _, s := range ds.Temperature.Samples {
		assert.GreaterOrEqual(t, s.Value, 0.0, "temperature on %s", s.Date)
	}
	for _, s := range ds.AirQuality.Samples {
		assert.Equal(t, s.Value, float64(int64(s.Value)), "aqi is integral on %s", s.Date)
		assert.GreaterOrEqual(t, s.Value, 30.0, "aqi floor on %s", s.Date)
	}
	for _, s := range ds.CO2.Samples {
		assert.GreaterOrEqual(t, s.Value, 385.0)
		assert.LessOrEqual(t, s.Value, 435.0)
	}
	for _, s := range ds.Precipitation.Samples {
		assert.GreaterOrEqual(t, s.Value, 0.0)
	}
}

func TestGeneratePeakIsStrictAndInWindow(t *testing.T) {
	g := newTestGenerator(t)

	for _, seed := range []uint64{1, 2, 3, 42, 97} {
		ds, err := g.Generate(testStart, 100, seed)
		require.NoError(t, err)

		vals := ds.AirQuality.Values()
		maxIdx, maxVal := -1, 0.0
		for i, v := range vals {
			if maxIdx < 0 || v > maxVal {
				maxIdx, maxVal = i, v
			}
		}
		peakDate := ds.AirQuality.Samples[maxIdx].Date

		assert.Equal(t, time.January, peakDate.Month(), "seed %d", seed)
		assert.GreaterOrEqual(t, peakDate.Day(), 20, "seed %d", seed)
		assert.LessOrEqual(t, peakDate.Day(), 25, "seed %d", seed)

		ties := 0
		for _, v := range vals {
			if v == maxVal {
				ties++
			}
		}
		assert.Equal(t, 1, ties, "seed %d: maximum must be unique", seed)
	}
}

func TestGenerateJointExtremeDays(t *testing.T) {
	g := newTestGenerator(t)

	for _, seed := range []uint64{1, 2, 3, 42, 97} {
		ds, err := g.Generate(testStart, 100, seed)
		require.NoError(t, err)

		precip := ds.Precipitation.MonthValues(time.February)
		aqi := ds.AirQuality.MonthValues(time.February)
		require.Len(t, precip, 28)

		joint := 0
		for i := range precip {
			if precip[i] > 5 && aqi[i] > 100 {
				joint++
			}
		}
		assert.Equal(t, 2, joint, "seed %d", seed)

		// The designed days themselves: Feb 12 and Feb 18, indices 11 and 17.
		for _, idx := range []int{11, 17} {
			assert.GreaterOrEqual(t, precip[idx], 6.0, "seed %d day %d", seed, idx+1)
			assert.GreaterOrEqual(t, aqi[idx], 105.0, "seed %d day %d", seed, idx+1)
		}

		// Incidental February rain stays under the cap so it cannot create
		// extra joint days.
		for i, v := range precip {
			if i == 11 || i == 17 {
				continue
			}
			assert.LessOrEqual(t, v, 5.0, "seed %d day %d", seed, i+1)
		}
	}
}

func TestGenerateVolatileMonthVariance(t *testing.T) {
	g := newTestGenerator(t)
	ds, err := g.Generate(testStart, 100, 42)
	require.NoError(t, err)

	variance := func(xs []float64) float64 {
		m := 0.0
		for _, x := range xs {
			m += x
		}
		m /= float64(len(xs))
		ss := 0.0
		for _, x := range xs {
			ss += (x - m) * (x - m)
		}
		return ss / float64(len(xs)-1)
	}

	aqiVar := variance(ds.AirQuality.MonthValues(time.February))
	for _, v := range []domain.Variable{domain.Temperature, domain.CO2, domain.Precipitation} {
		assert.Greater(t, aqiVar, variance(ds.Series(v).MonthValues(time.February)), "vs %s", v)
	}
}

func TestGenerateErrors(t *testing.T) {
	g := newTestGenerator(t)

	t.Run("non-positive horizon", func(t *testing.T) {
		_, err := g.Generate(testStart, 0, 42)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "horizon")
	})

	t.Run("horizon past profiled months", func(t *testing.T) {
		_, err := g.Generate(testStart, 121, 42)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no curve for May")
	})
}
