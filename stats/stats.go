// Package stats provides the error metrics reported when fitting and
// evaluating models.
//
// All functions take residuals (target minus prediction) as plain float64
// slices, so callers can aggregate errors over energies, forces, or any
// other quantity without adapters.
//
// Example usage:
//
//	import "github.com/atomica-ml/atomica/stats"
//
//	delta := residuals(predicted, reference)
//	fmt.Printf("MAE %.4f eV, RMSE %.4f eV, Q95 %.4f eV\n",
//	    stats.MAE(delta), stats.RMSE(delta), stats.Q95(delta))
package stats

import (
	"github.com/atomica-ml/atomica/internal/stats"
)

// MAE returns the mean absolute error of the residuals.
// Returns NaN for empty input.
func MAE(delta []float64) float64 {
	return stats.MAE(delta)
}

// RelMAE returns the mean absolute error as a percentage of the mean
// absolute target value.
func RelMAE(delta, target []float64) float64 {
	return stats.RelMAE(delta, target)
}

// RMSE returns the root mean square error of the residuals.
// Returns NaN for empty input.
func RMSE(delta []float64) float64 {
	return stats.RMSE(delta)
}

// RelRMSE returns the root mean square error as a percentage of the root
// mean square target value.
func RelRMSE(delta, target []float64) float64 {
	return stats.RelRMSE(delta, target)
}

// Q95 returns the 95th percentile of the absolute residuals.
// Returns NaN for empty input.
func Q95(delta []float64) float64 {
	return stats.Q95(delta)
}

// FractionWithin returns the fraction of residuals with absolute value
// strictly below eta. Returns NaN for empty input.
func FractionWithin(delta []float64, eta float64) float64 {
	return stats.FractionWithin(delta, eta)
}
