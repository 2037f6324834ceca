// Package verify independently recomputes the statistics behind each
// declared constraint from persisted series and reports pass/fail. It shares
// no computation with the generator beyond the stats package, so a generator
// bug cannot vouch for itself.
package verify

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Constraints is the declarative contract a generated dataset must satisfy.
// The defaults mirror the built-in generation profile; a YAML file can
// override individual thresholds when verifying a retuned dataset.
type Constraints struct {
	// Variance ranking: air quality must be the strict variance winner here.
	VolatileMonth time.Month `yaml:"volatile_month"`

	// Inverse correlation: temperature vs air quality in this month must be
	// negative and strictly the strongest in magnitude among the candidates.
	CoupledMonth time.Month `yaml:"coupled_month"`

	// Peak window: the single maximum air-quality day must land inside it.
	PeakMonth   time.Month `yaml:"peak_month"`
	PeakFromDay int        `yaml:"peak_from_day"`
	PeakToDay   int        `yaml:"peak_to_day"`

	// Clear trend: R² threshold and month range for the day-index regression.
	TrendFromMonth time.Month `yaml:"trend_from_month"`
	TrendToMonth   time.Month `yaml:"trend_to_month"`
	TrendR2        float64    `yaml:"trend_r2"`

	// Joint extremes: count of days in JointMonth exceeding both thresholds.
	JointMonth      time.Month `yaml:"joint_month"`
	PrecipThreshold float64    `yaml:"precip_threshold_mm"`
	AQIThreshold    float64    `yaml:"aqi_threshold"`
	JointMinDays    int        `yaml:"joint_min_days"`
	JointMaxDays    int        `yaml:"joint_max_days"`
}

// DefaultConstraints returns the contract for the built-in profile.
func DefaultConstraints() Constraints {
	return Constraints{
		VolatileMonth:   time.February,
		CoupledMonth:    time.January,
		PeakMonth:       time.January,
		PeakFromDay:     20,
		PeakToDay:       25,
		TrendFromMonth:  time.January,
		TrendToMonth:    time.March,
		TrendR2:         0.70,
		JointMonth:      time.February,
		PrecipThreshold: 5,
		AQIThreshold:    100,
		JointMinDays:    1,
		JointMaxDays:    2,
	}
}

// LoadConstraints reads a YAML override file applied on top of the defaults.
func LoadConstraints(path string) (Constraints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constraints{}, fmt.Errorf("read constraints: %w", err)
	}
	c := DefaultConstraints()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Constraints{}, fmt.Errorf("parse constraints %s: %w", path, err)
	}
	if c.PeakFromDay > c.PeakToDay {
		return Constraints{}, fmt.Errorf("peak window %d-%d is inverted", c.PeakFromDay, c.PeakToDay)
	}
	if c.JointMinDays > c.JointMaxDays {
		return Constraints{}, fmt.Errorf("joint day range %d-%d is inverted", c.JointMinDays, c.JointMaxDays)
	}
	return c, nil
}
