// Package generate builds the four environmental series from a generation
// profile and a seeded random source. Every statistical property the
// verifier checks is manufactured here: the inverse temperature coupling,
// the peak window, the volatile month, and the joint extreme days.
package generate

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
	"github.com/couchcryptid/enviro-series/internal/profile"
)

// Generator produces datasets from a profile. It holds no random state;
// the seed is threaded through Generate so a run is reproducible without
// relying on call ordering.
type Generator struct {
	profile *profile.Profile
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Generator.
func New(p *profile.Profile, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{
		profile: p,
		logger:  logger,
		metrics: metrics,
	}
}

// Generate produces the four aligned series over horizon days from start.
// A single deterministic pass: the same seed always yields the same dataset.
func (g *Generator) Generate(start time.Time, horizon int, seed uint64) (*domain.Dataset, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	dates := make([]time.Time, horizon)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = day
		day = day.AddDate(0, 0, 1)
	}

	if err := g.checkMonthCoverage(dates); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))

	temps := g.buildTemperature(rng, dates)
	aqi := g.buildAirQuality(rng, dates, temps)
	co2 := g.buildCO2(rng, dates)
	precip := g.buildPrecipitation(rng, dates)

	ds := &domain.Dataset{
		Temperature:   makeSeries(domain.Temperature, dates, temps),
		AirQuality:    makeSeries(domain.AirQuality, dates, aqi),
		CO2:           makeSeries(domain.CO2, dates, co2),
		Precipitation: makeSeries(domain.Precipitation, dates, precip),
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	g.metrics.SeriesGenerated.Add(float64(len(ds.All())))
	g.metrics.SamplesGenerated.Add(float64(4 * horizon))
	g.logger.Info("dataset generated",
		"start", start.Format(domain.DateLayout),
		"horizon_days", horizon,
		"seed", seed,
	)
	return ds, nil
}

// checkMonthCoverage verifies the profile covers every month the horizon
// touches, so a longer horizon fails loudly instead of flattening to floors.
func (g *Generator) checkMonthCoverage(dates []time.Time) error {
	aq := &g.profile.AirQuality
	for _, d := range dates {
		m := d.Month()
		if _, ok := g.profile.Temperature.Months[m]; !ok {
			return fmt.Errorf("temperature profile has no curve for %s", m)
		}
		if m == aq.Coupling.Month || m == aq.Volatile.Month {
			continue
		}
		if _, ok := aq.Months[m]; !ok {
			return fmt.Errorf("air_quality profile has no curve for %s", m)
		}
	}
	return nil
}

// buildTemperature applies the per-month curve table: a base level rising
// piecewise-linearly within each month plus Gaussian day-to-day noise,
// clamped at the floor.
func (g *Generator) buildTemperature(rng *rand.Rand, dates []time.Time) []float64 {
	p := g.profile.Temperature
	vals := make([]float64, len(dates))
	for i, d := range dates {
		c := p.Months[d.Month()]
		frac := float64(d.Day()-1) / float64(daysInMonth(d))
		v := c.Level + c.Rise*frac + normal(rng, c.Noise)
		if v < p.Floor {
			v = p.Floor
		}
		vals[i] = v
	}
	return vals
}

// buildAirQuality produces the most constrained series. In the coupled month
// the value is an affine decreasing function of that day's temperature, except
// inside the peak window where elevated overrides apply. The volatile month
// uses a much larger noise scale, with the joint days floored above the joint
// threshold. All values are floored and truncated to integers.
func (g *Generator) buildAirQuality(rng *rand.Rand, dates []time.Time, temps []float64) []float64 {
	p := g.profile.AirQuality
	vals := make([]float64, len(dates))

	for i, d := range dates {
		var v float64
		switch m := d.Month(); {
		case m == p.Coupling.Month:
			var base float64
			switch day := d.Day(); {
			case p.Peak.InWindow(day) && p.Peak.IsCrest(day):
				base = p.Peak.CrestBase + uniform(rng, 0, p.Peak.CrestJitter)
			case p.Peak.InWindow(day):
				base = p.Peak.Base + uniform(rng, p.Peak.JitterLow, p.Peak.JitterHigh)
			default:
				base = p.Coupling.Base - p.Coupling.Slope*temps[i]
			}
			v = base + normal(rng, p.Coupling.Noise)
		case m == p.Volatile.Month:
			v = p.Volatile.Level + normal(rng, p.Volatile.Noise)
		default:
			c := p.Months[m]
			v = c.Level + normal(rng, c.Noise)
		}

		if v < p.Floor {
			v = p.Floor
		}
		for _, joint := range p.JointDays {
			if joint.Matches(d) && v < p.JointFloor {
				v = p.JointFloor
			}
		}
		vals[i] = math.Trunc(v)
	}

	g.enforcePeak(dates, vals)
	return vals
}

// enforcePeak guarantees the strict single maximum lands on the middle crest
// day. The crest formula already puts it there in the typical draw; when an
// unlucky stream produces a higher value elsewhere, the designated day is
// raised above it by the configured margin.
func (g *Generator) enforcePeak(dates []time.Time, vals []float64) {
	p := g.profile.AirQuality.Peak
	crest := p.CrestDays[len(p.CrestDays)/2]

	target := -1
	for i, d := range dates {
		if d.Month() == p.Month && d.Day() == crest {
			target = i
			break
		}
	}
	if target < 0 {
		// Horizon does not reach the peak window; nothing to enforce.
		return
	}

	best := math.Inf(-1)
	for i, v := range vals {
		if i != target && v > best {
			best = v
		}
	}
	if vals[target] <= best {
		lifted := math.Trunc(best + p.Margin)
		g.logger.Debug("lifting peak crest day",
			"date", dates[target].Format(domain.DateLayout),
			"from", vals[target], "to", lifted)
		vals[target] = lifted
	}
}

// buildCO2 produces an oscillating base curve independent of temperature with
// small noise, clamped to a realistic band. No monotonic trend by design.
func (g *Generator) buildCO2(rng *rand.Rand, dates []time.Time) []float64 {
	p := g.profile.CO2
	vals := make([]float64, len(dates))
	for i := range dates {
		v := p.Level + p.Amplitude*math.Sin(2*math.Pi*float64(i)/p.PeriodDays) + normal(rng, p.Noise)
		vals[i] = clamp(v, p.Min, p.Max)
	}
	return vals
}

// buildPrecipitation produces mostly-trace rainfall with occasional
// heavy-tailed rain events. Wet days are forced into the configured range;
// inside the cap month, incidental events are capped so only the designed
// wet days can clear the joint threshold.
func (g *Generator) buildPrecipitation(rng *rand.Rand, dates []time.Time) []float64 {
	p := g.profile.Precipitation
	vals := make([]float64, len(dates))

	for i, d := range dates {
		var v float64
		switch {
		case isWetDay(p.WetDays, d):
			v = uniform(rng, p.WetMin, p.WetMax)
		case rng.Float64() < p.RainProbability:
			v = distuv.Exponential{Rate: 1 / p.RainMean, Src: rng}.Rand()
			if d.Month() == p.CapMonth && v > p.Cap {
				v = p.Cap
			}
		default:
			v = uniform(rng, 0, p.TraceMax)
		}
		if v < 0 {
			v = 0
		}
		vals[i] = v
	}
	return vals
}

func isWetDay(wet []profile.DayRef, d time.Time) bool {
	for _, w := range wet {
		if w.Matches(d) {
			return true
		}
	}
	return false
}

func makeSeries(v domain.Variable, dates []time.Time, vals []float64) *domain.Series {
	samples := make([]domain.Sample, len(dates))
	for i := range dates {
		samples[i] = domain.Sample{Date: dates[i], Value: vals[i]}
	}
	return &domain.Series{Variable: v, Samples: samples}
}

func normal(rng *rand.Rand, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}.Rand()
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	if min == max {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: rng}.Rand()
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func daysInMonth(d time.Time) int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
