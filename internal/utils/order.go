package utils

import (
	"math"
)

// FeeEstimator estimates the total fee charged for filling quantity at price.
type FeeEstimator interface {
	Estimate(quantity float64, price float64) float64
}

// FeeEstimatorFunc adapts a function to FeeEstimator.
type FeeEstimatorFunc func(quantity float64, price float64) float64

// Estimate calls f(quantity, price).
func (f FeeEstimatorFunc) Estimate(quantity float64, price float64) float64 {
	return f(quantity, price)
}

// PercentageFeeEstimator charges pct of the gross notional.
func PercentageFeeEstimator(pct float64) FeeEstimator {
	return FeeEstimatorFunc(func(quantity float64, price float64) float64 {
		return math.Abs(quantity) * price * pct
	})
}

// CalculateMaxQuantity calculates the maximum quantity that can be bought with the given balance
// once fees are accounted for.
func CalculateMaxQuantity(balance float64, price float64, fees FeeEstimator) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	maxQty := balance / price
	if fees == nil {
		return maxQty
	}

	// Usually converges within a couple of rounds
	for i := 0; i < 10; i++ {
		totalCost := maxQty*price + fees.Estimate(maxQty, price)
		if totalCost <= balance {
			break
		}

		maxQty *= balance / totalCost
	}

	return maxQty
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
// Negative quantities are rounded towards zero as well.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)
	// nudge by a tiny epsilon so 0.3*10 style float noise does not lose a whole step
	rounded := math.Floor(math.Abs(quantity)*multiplier+1e-9) / multiplier

	return math.Copysign(rounded, quantity)
}

// ApproxEqual reports whether a and b differ by less than tolerance.
func ApproxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
