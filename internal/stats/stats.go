// Package stats provides the statistics the verifier recomputes from
// generated series: sample variance, Pearson correlation with a two-sided
// p-value, ordinary least squares against a day index, earliest-argmax, and
// joint-threshold day counts. Computation is delegated to gonum.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrTooFewSamples is returned when a statistic is requested over a slice
// too short to be meaningful.
var ErrTooFewSamples = errors.New("too few samples")

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// Variance returns the sample variance (n-1 denominator) of xs.
func Variance(xs []float64) float64 {
	return stat.Variance(xs, nil)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	return stat.StdDev(xs, nil)
}

// Correlation is a Pearson correlation coefficient with its two-sided
// p-value under the t distribution with n-2 degrees of freedom.
type Correlation struct {
	R float64
	P float64
	N int
}

// Pearson computes the Pearson correlation between two equal-length series.
func Pearson(x, y []float64) (Correlation, error) {
	if len(x) != len(y) {
		return Correlation{}, fmt.Errorf("length mismatch: %d vs %d", len(x), len(y))
	}
	if len(x) < 3 {
		return Correlation{}, fmt.Errorf("pearson over %d samples: %w", len(x), ErrTooFewSamples)
	}

	r := stat.Correlation(x, y, nil)
	return Correlation{R: r, P: pearsonPValue(r, len(x)), N: len(x)}, nil
}

// pearsonPValue converts r to a two-sided p-value via the t statistic
// t = r·sqrt((n-2)/(1-r²)).
func pearsonPValue(r float64, n int) float64 {
	if math.IsNaN(r) {
		return math.NaN()
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0 // perfectly correlated
	}
	t := r * math.Sqrt(float64(n-2)/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.CDF(-math.Abs(t))
}

// Trend is an ordinary least squares fit of a series against its day index.
type Trend struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// LinearTrend regresses ys against the integer day index 0..n-1.
func LinearTrend(ys []float64) (Trend, error) {
	if len(ys) < 3 {
		return Trend{}, fmt.Errorf("regression over %d samples: %w", len(ys), ErrTooFewSamples)
	}

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant series: the fit explains nothing.
		r2 = 0
	}
	return Trend{Slope: beta, Intercept: alpha, R2: r2}, nil
}

// MaxEarliest returns the index and value of the maximum element. When
// several elements tie at the maximum, the earliest index wins.
func MaxEarliest(xs []float64) (int, float64) {
	idx, best := -1, math.Inf(-1)
	for i, v := range xs {
		if v > best {
			idx, best = i, v
		}
	}
	return idx, best
}

// CountJoint counts positions where a exceeds aThreshold and b exceeds
// bThreshold on the same index.
func CountJoint(a, b []float64, aThreshold, bThreshold float64) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	n := 0
	for i := range a {
		if a[i] > aThreshold && b[i] > bThreshold {
			n++
		}
	}
	return n, nil
}
