// Package profile holds the declarative generation profile: per-month curve
// parameters and the named anomaly day sets that force the dataset's designed
// extreme events. Tuning a constraint is an edit to this data, not to
// generator code.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Curve is the base formula of one variable in one month:
// level + rise·(dayOfMonth-1)/daysInMonth + Normal(0, noise).
type Curve struct {
	Level float64 `yaml:"level"`
	Rise  float64 `yaml:"rise"`
	Noise float64 `yaml:"noise"`
}

// DayRef names a single calendar day independent of year.
type DayRef struct {
	Month time.Month `yaml:"month"`
	Day   int        `yaml:"day"`
}

// Matches reports whether date falls on this day.
func (d DayRef) Matches(date time.Time) bool {
	return date.Month() == d.Month && date.Day() == d.Day
}

// TemperatureProfile drives the seasonal temperature curve.
type TemperatureProfile struct {
	Months map[time.Month]Curve `yaml:"months"`
	Floor  float64              `yaml:"floor"`
}

// Coupling makes air quality an affine decreasing function of the same day's
// temperature inside one month, so the inverse correlation is structural.
type Coupling struct {
	Month time.Month `yaml:"month"`
	Base  float64    `yaml:"base"`
	Slope float64    `yaml:"slope"` // subtracted per unit of temperature
	Noise float64    `yaml:"noise"`
}

// Peak is the anomaly day set manufacturing the air-quality maximum: a
// window of elevated days containing a few crest days raised further still.
// The strict single maximum is guaranteed to land on the middle crest day;
// if the rest of the series would exceed it, that day is lifted by Margin.
type Peak struct {
	Month       time.Month `yaml:"month"`
	FromDay     int        `yaml:"from_day"`
	ToDay       int        `yaml:"to_day"`
	Base        float64    `yaml:"base"`
	JitterLow   float64    `yaml:"jitter_low"`
	JitterHigh  float64    `yaml:"jitter_high"`
	CrestDays   []int      `yaml:"crest_days"`
	CrestBase   float64    `yaml:"crest_base"`
	CrestJitter float64    `yaml:"crest_jitter"`
	Margin      float64    `yaml:"margin"`
}

// InWindow reports whether a day of the peak month falls inside the window.
func (p Peak) InWindow(day int) bool {
	return day >= p.FromDay && day <= p.ToDay
}

// IsCrest reports whether a day of the peak month is a crest day.
func (p Peak) IsCrest(day int) bool {
	for _, d := range p.CrestDays {
		if d == day {
			return true
		}
	}
	return false
}

// Volatile gives one month a noise scale far above every other variable's,
// making it the designed variance winner for that month.
type Volatile struct {
	Month time.Month `yaml:"month"`
	Level float64    `yaml:"level"`
	Noise float64    `yaml:"noise"`
}

// AirQualityProfile drives the air-quality series.
type AirQualityProfile struct {
	Floor      float64              `yaml:"floor"`
	Coupling   Coupling             `yaml:"coupling"`
	Peak       Peak                 `yaml:"peak"`
	Volatile   Volatile             `yaml:"volatile"`
	JointDays  []DayRef             `yaml:"joint_days"` // forced above JointFloor
	JointFloor float64              `yaml:"joint_floor"`
	Months     map[time.Month]Curve `yaml:"months"` // remaining months
}

// CO2Profile drives the oscillating, trendless CO2 curve:
// level + amplitude·sin(2π·i/period) + Normal(0, noise), clamped to
// [min, max]. The period is short enough that several full cycles fit in
// any month, so the oscillation cannot masquerade as a monthly trend.
type CO2Profile struct {
	Level      float64 `yaml:"level"`
	Amplitude  float64 `yaml:"amplitude"`
	PeriodDays float64 `yaml:"period_days"`
	Noise      float64 `yaml:"noise"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
}

// PrecipitationProfile drives sporadic rainfall. WetDays coincide with the
// air-quality joint days; inside CapMonth, incidental rain events are capped
// at Cap so the only days over the joint threshold are the designed ones.
type PrecipitationProfile struct {
	WetDays         []DayRef   `yaml:"wet_days"`
	WetMin          float64    `yaml:"wet_min"`
	WetMax          float64    `yaml:"wet_max"`
	RainProbability float64    `yaml:"rain_probability"`
	RainMean        float64    `yaml:"rain_mean"`
	TraceMax        float64    `yaml:"trace_max"`
	CapMonth        time.Month `yaml:"cap_month"`
	Cap             float64    `yaml:"cap"`
}

// Profile is the complete generation profile for one dataset.
type Profile struct {
	Temperature   TemperatureProfile   `yaml:"temperature"`
	AirQuality    AirQualityProfile    `yaml:"air_quality"`
	CO2           CO2Profile           `yaml:"co2"`
	Precipitation PrecipitationProfile `yaml:"precipitation"`
}

// Default returns the built-in profile: a January–April horizon with the
// air-quality peak on Jan 20–25, the volatile month in February, and the
// joint precipitation/air-quality days on Feb 12 and Feb 18.
func Default() *Profile {
	return &Profile{
		Temperature: TemperatureProfile{
			Months: map[time.Month]Curve{
				time.January:  {Level: 5, Rise: 5, Noise: 1.5},
				time.February: {Level: 10, Rise: 5, Noise: 1.8},
				time.March:    {Level: 15, Rise: 5, Noise: 2.0},
				time.April:    {Level: 20, Rise: 0, Noise: 2.0},
			},
			Floor: 0,
		},
		AirQuality: AirQualityProfile{
			Floor: 30,
			Coupling: Coupling{
				Month: time.January,
				Base:  180,
				Slope: 15,
				Noise: 3,
			},
			Peak: Peak{
				Month:       time.January,
				FromDay:     20,
				ToDay:       25,
				Base:        130,
				JitterLow:   -5,
				JitterHigh:  10,
				CrestDays:   []int{21, 22, 23},
				CrestBase:   145,
				CrestJitter: 10,
				Margin:      5,
			},
			Volatile: Volatile{
				Month: time.February,
				Level: 80,
				Noise: 25,
			},
			JointDays: []DayRef{
				{Month: time.February, Day: 12},
				{Month: time.February, Day: 18},
			},
			JointFloor: 105,
			Months: map[time.Month]Curve{
				time.March: {Level: 70, Noise: 10},
				time.April: {Level: 65, Noise: 8},
			},
		},
		CO2: CO2Profile{
			Level:      410,
			Amplitude:  8,
			PeriodDays: 7,
			Noise:      4,
			Min:        385,
			Max:        435,
		},
		Precipitation: PrecipitationProfile{
			WetDays: []DayRef{
				{Month: time.February, Day: 12},
				{Month: time.February, Day: 18},
			},
			WetMin:          6,
			WetMax:          15,
			RainProbability: 0.15,
			RainMean:        2.5,
			TraceMax:        0.5,
			CapMonth:        time.February,
			Cap:             5,
		},
	}
}

// Load reads a YAML profile from path, applied on top of the defaults so a
// file only needs to name the parameters it overrides.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects profiles that cannot produce a well-formed dataset.
func (p *Profile) Validate() error {
	if len(p.Temperature.Months) == 0 {
		return errors.New("temperature: no month curves defined")
	}
	for m, c := range p.Temperature.Months {
		if c.Noise < 0 {
			return fmt.Errorf("temperature month %d: negative noise", m)
		}
	}

	aq := &p.AirQuality
	if aq.Coupling.Slope <= 0 {
		return errors.New("air_quality: coupling slope must be positive")
	}
	if aq.Peak.FromDay > aq.Peak.ToDay {
		return fmt.Errorf("air_quality: peak window %d-%d is inverted", aq.Peak.FromDay, aq.Peak.ToDay)
	}
	if len(aq.Peak.CrestDays) == 0 {
		return errors.New("air_quality: peak needs at least one crest day")
	}
	for _, d := range aq.Peak.CrestDays {
		if !aq.Peak.InWindow(d) {
			return fmt.Errorf("air_quality: crest day %d outside peak window %d-%d", d, aq.Peak.FromDay, aq.Peak.ToDay)
		}
	}
	if aq.Peak.Margin <= 0 {
		return errors.New("air_quality: peak margin must be positive")
	}
	if aq.Volatile.Noise <= 0 {
		return errors.New("air_quality: volatile month noise must be positive")
	}

	if p.CO2.PeriodDays <= 0 {
		return errors.New("co2: period_days must be positive")
	}
	if p.CO2.Min >= p.CO2.Max {
		return fmt.Errorf("co2: band [%g, %g] is empty", p.CO2.Min, p.CO2.Max)
	}

	pr := &p.Precipitation
	if pr.RainProbability < 0 || pr.RainProbability > 1 {
		return fmt.Errorf("precipitation: rain_probability %g outside [0, 1]", pr.RainProbability)
	}
	if pr.RainMean <= 0 {
		return errors.New("precipitation: rain_mean must be positive")
	}
	if pr.WetMin > pr.WetMax {
		return fmt.Errorf("precipitation: wet range [%g, %g] is inverted", pr.WetMin, pr.WetMax)
	}
	if pr.Cap <= 0 {
		return errors.New("precipitation: cap must be positive")
	}
	return nil
}
