package verify

import (
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
	"github.com/couchcryptid/enviro-series/internal/stats"
)

// Verifier recomputes each constraint's statistics from a dataset.
type Verifier struct {
	constraints Constraints
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Verifier.
func New(c Constraints, logger *slog.Logger, metrics *observability.Metrics) *Verifier {
	return &Verifier{
		constraints: c,
		logger:      logger,
		metrics:     metrics,
	}
}

// Verify runs every constraint check against the dataset. The dataset is
// expected to have passed domain alignment validation already; checks here
// are purely statistical.
func (v *Verifier) Verify(ds *domain.Dataset) *Report {
	report := &Report{
		Results: []CheckResult{
			v.checkVarianceRanking(ds),
			v.checkInverseCorrelation(ds),
			v.checkPeakWindow(ds),
			v.checkClearTrend(ds),
			v.checkJointExtremes(ds),
		},
	}

	for i := range report.Results {
		res := &report.Results[i]
		v.metrics.ChecksRun.Inc()
		if !res.Passed() {
			v.metrics.CheckFailures.Inc()
			v.logger.Warn("constraint check failed", "check", res.Name, "failures", len(res.Failures))
		}
	}
	return report
}

// checkVarianceRanking verifies air quality has strictly the largest sample
// variance of the four variables in the volatile month.
func (v *Verifier) checkVarianceRanking(ds *domain.Dataset) CheckResult {
	res := CheckResult{Name: "Variance ranking (volatile month)"}
	month := v.constraints.VolatileMonth

	aqiVar := stats.Variance(ds.AirQuality.MonthValues(month))
	res.observef("%s %s variance: %.2f", domain.AirQuality, month, aqiVar)

	for _, s := range ds.All() {
		if s.Variable == domain.AirQuality {
			continue
		}
		other := stats.Variance(s.MonthValues(month))
		res.observef("%s %s variance: %.2f", s.Variable, month, other)
		if aqiVar <= other {
			res.failf("%s variance %.2f is not strictly above %s variance %.2f",
				domain.AirQuality, aqiVar, s.Variable, other)
		}
	}
	return res
}

// checkInverseCorrelation verifies the coupled-month temperature/air-quality
// correlation is negative and strictly the strongest in magnitude among the
// candidate variables.
func (v *Verifier) checkInverseCorrelation(ds *domain.Dataset) CheckResult {
	res := CheckResult{Name: "Inverse correlation with temperature"}
	month := v.constraints.CoupledMonth
	temps := ds.Temperature.MonthValues(month)

	correlations := map[domain.Variable]stats.Correlation{}
	for _, s := range []*domain.Series{ds.AirQuality, ds.CO2, ds.Precipitation} {
		corr, err := stats.Pearson(temps, s.MonthValues(month))
		if err != nil {
			res.failf("%s: %v", s.Variable, err)
			continue
		}
		correlations[s.Variable] = corr
		res.observef("%s vs temperature in %s: r=%.3f p=%.4f (n=%d)",
			s.Variable, month, corr.R, corr.P, corr.N)
	}
	if len(correlations) != 3 {
		return res
	}

	aqi := correlations[domain.AirQuality]
	if aqi.R >= 0 {
		res.failf("%s correlation %.3f is not negative", domain.AirQuality, aqi.R)
	}
	for variable, corr := range correlations {
		if variable == domain.AirQuality {
			continue
		}
		if math.Abs(aqi.R) <= math.Abs(corr.R) {
			res.failf("%s correlation magnitude %.3f does not strictly exceed %s magnitude %.3f",
				domain.AirQuality, math.Abs(aqi.R), variable, math.Abs(corr.R))
		}
	}
	return res
}

// checkPeakWindow verifies the earliest maximum air-quality day falls inside
// the designated window, reporting ties explicitly.
func (v *Verifier) checkPeakWindow(ds *domain.Dataset) CheckResult {
	res := CheckResult{Name: "Air-quality maximum inside peak window"}
	c := v.constraints

	vals := ds.AirQuality.Values()
	idx, maxVal := stats.MaxEarliest(vals)
	if idx < 0 {
		res.failf("air-quality series is empty")
		return res
	}
	maxDate := ds.AirQuality.Samples[idx].Date

	ties := 0
	for _, val := range vals {
		if val == maxVal {
			ties++
		}
	}

	res.observef("maximum AQI %g on %s", maxVal, maxDate.Format(domain.DateLayout))
	if ties > 1 {
		res.observef("%d days tie at the maximum; earliest reported", ties)
	}
	res.observef("required window: %s %d-%d", c.PeakMonth, c.PeakFromDay, c.PeakToDay)

	if maxDate.Month() != c.PeakMonth || maxDate.Day() < c.PeakFromDay || maxDate.Day() > c.PeakToDay {
		res.failf("maximum on %s is outside %s %d-%d",
			maxDate.Format(domain.DateLayout), c.PeakMonth, c.PeakFromDay, c.PeakToDay)
	}
	return res
}

// checkClearTrend regresses each variable against the day index over the
// trend month range. A variable has a clear trend only when R² exceeds the
// threshold and the slope is positive; the resulting set must be exactly
// {temperature}. An empty or larger set is reported, never assumed away.
func (v *Verifier) checkClearTrend(ds *domain.Dataset) CheckResult {
	res := CheckResult{Name: "Clear increasing trend uniqueness"}
	c := v.constraints

	var clear []domain.Variable
	for _, s := range ds.All() {
		trend, err := stats.LinearTrend(s.MonthRangeValues(c.TrendFromMonth, c.TrendToMonth))
		if err != nil {
			res.failf("%s: %v", s.Variable, err)
			continue
		}
		meets := trend.R2 > c.TrendR2 && trend.Slope > 0
		res.observef("%s %s-%s: slope=%.4f R²=%.3f clear=%t",
			s.Variable, c.TrendFromMonth, c.TrendToMonth, trend.Slope, trend.R2, meets)
		if meets {
			clear = append(clear, s.Variable)
		}
	}

	switch {
	case len(clear) == 0:
		res.observef("clear-trend set is empty")
		res.failf("no variable meets R²>%.2f with positive slope; expected temperature", c.TrendR2)
	case len(clear) == 1 && clear[0] == domain.Temperature:
		res.observef("clear-trend set: {%s}", clear[0])
	default:
		res.failf("clear-trend set %v; expected exactly {%s}", clear, domain.Temperature)
	}
	return res
}

// checkJointExtremes counts the days in the joint month where precipitation
// and air quality both exceed their thresholds; the count must fall inside
// the configured band.
func (v *Verifier) checkJointExtremes(ds *domain.Dataset) CheckResult {
	res := CheckResult{Name: "Joint precipitation/air-quality extremes"}
	c := v.constraints

	precip := ds.Precipitation.MonthValues(c.JointMonth)
	aqi := ds.AirQuality.MonthValues(c.JointMonth)

	count, err := stats.CountJoint(precip, aqi, c.PrecipThreshold, c.AQIThreshold)
	if err != nil {
		res.failf("joint count: %v", err)
		return res
	}

	res.observef("%s days with precipitation>%gmm AND aqi>%g: %d",
		c.JointMonth, c.PrecipThreshold, c.AQIThreshold, count)
	for i, smp := range ds.Precipitation.Month(c.JointMonth) {
		if smp.Value > c.PrecipThreshold && aqi[i] > c.AQIThreshold {
			res.observef("  %s: precipitation=%.1fmm aqi=%g",
				smp.Date.Format(domain.DateLayout), smp.Value, aqi[i])
		}
	}

	if count < c.JointMinDays || count > c.JointMaxDays {
		res.failf("joint day count %d outside [%d, %d]", count, c.JointMinDays, c.JointMaxDays)
	}
	return res
}

// MonthsCovered reports whether the dataset reaches every month the
// constraints reference, so verification over a short horizon fails loudly.
func MonthsCovered(ds *domain.Dataset, c Constraints) bool {
	covered := map[time.Month]bool{}
	for _, d := range ds.Dates() {
		covered[d.Month()] = true
	}
	for m := c.TrendFromMonth; m <= c.TrendToMonth; m++ {
		if !covered[m] {
			return false
		}
	}
	return covered[c.VolatileMonth] && covered[c.CoupledMonth] &&
		covered[c.PeakMonth] && covered[c.JointMonth]
}
