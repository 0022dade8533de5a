// Package stats implements the error metrics reported during training and
// evaluation. All functions take residuals (target minus prediction) as plain
// float64 slices and are silent about units.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// relGuard keeps relative metrics finite when the target norm vanishes.
const relGuard = 1e-9

// MAE returns the mean absolute error of the residuals.
// Returns NaN for empty input.
func MAE(delta []float64) float64 {
	if len(delta) == 0 {
		return math.NaN()
	}
	return stat.Mean(absolutes(delta), nil)
}

// RelMAE returns the mean absolute error as a percentage of the mean
// absolute target value.
func RelMAE(delta, target []float64) float64 {
	if len(delta) == 0 || len(target) == 0 {
		return math.NaN()
	}
	norm := stat.Mean(absolutes(target), nil)
	return MAE(delta) / (norm + relGuard) * 100
}

// RMSE returns the root mean square error of the residuals.
// Returns NaN for empty input.
func RMSE(delta []float64) float64 {
	if len(delta) == 0 {
		return math.NaN()
	}
	return math.Sqrt(floats.Dot(delta, delta) / float64(len(delta)))
}

// RelRMSE returns the root mean square error as a percentage of the root
// mean square target value.
func RelRMSE(delta, target []float64) float64 {
	if len(delta) == 0 || len(target) == 0 {
		return math.NaN()
	}
	norm := math.Sqrt(floats.Dot(target, target) / float64(len(target)))
	return RMSE(delta) / (norm + relGuard) * 100
}

// Q95 returns the 95th percentile of the absolute residuals.
// Returns NaN for empty input.
func Q95(delta []float64) float64 {
	if len(delta) == 0 {
		return math.NaN()
	}
	abs := absolutes(delta)
	sort.Float64s(abs)
	return stat.Quantile(0.95, stat.LinInterp, abs, nil)
}

// FractionWithin returns the fraction of residuals with absolute value
// strictly below eta. Returns NaN for empty input.
func FractionWithin(delta []float64, eta float64) float64 {
	if len(delta) == 0 {
		return math.NaN()
	}
	count := 0
	for _, d := range delta {
		if math.Abs(d) < eta {
			count++
		}
	}
	return float64(count) / float64(len(delta))
}

func absolutes(delta []float64) []float64 {
	abs := make([]float64, len(delta))
	for i, d := range delta {
		abs[i] = math.Abs(d)
	}
	return abs
}
