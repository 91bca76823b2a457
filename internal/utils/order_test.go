package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantity() {
	tests := []struct {
		name        string
		balance     float64
		price       float64
		fees        FeeEstimator
		expectedQty float64
	}{
		{
			name:        "no fees",
			balance:     1000.0,
			price:       100.0,
			fees:        nil,
			expectedQty: 10,
		},
		{
			name:        "zero percentage",
			balance:     1000.0,
			price:       100.0,
			fees:        PercentageFeeEstimator(0),
			expectedQty: 10,
		},
		{
			name:        "zero balance",
			balance:     0.0,
			price:       100.0,
			fees:        PercentageFeeEstimator(0.01),
			expectedQty: 0,
		},
		{
			name:        "zero price",
			balance:     1000.0,
			price:       0.0,
			fees:        PercentageFeeEstimator(0.01),
			expectedQty: 0,
		},
		{
			name:        "balance less than price",
			balance:     50.0,
			price:       100.0,
			fees:        nil,
			expectedQty: 0.5,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateMaxQuantity(tc.balance, tc.price, tc.fees)
			suite.InDelta(tc.expectedQty, qty, 1e-9, "Quantity mismatch")
		})
	}
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantityWithFees() {
	fees := PercentageFeeEstimator(0.01)
	qty := CalculateMaxQuantity(1000, 100, fees)

	cost := qty*100 + fees.Estimate(qty, 100)
	suite.LessOrEqual(cost, 1000.0)
	suite.Greater(qty, 9.8)
	suite.Less(qty, 10.0)
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	tests := []struct {
		name      string
		quantity  float64
		precision int
		expected  float64
	}{
		{name: "floor", quantity: 1.23456, precision: 2, expected: 1.23},
		{name: "integer precision", quantity: 9.99, precision: 0, expected: 9},
		{name: "float noise", quantity: 0.1 + 0.2, precision: 1, expected: 0.3},
		{name: "negative rounds towards zero", quantity: -1.239, precision: 2, expected: -1.23},
		{name: "zero", quantity: 0, precision: 4, expected: 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, RoundToDecimalPrecision(tc.quantity, tc.precision), 1e-12)
		})
	}
}

func (suite *UtilsTestSuite) TestApproxEqual() {
	suite.True(ApproxEqual(0.1+0.2, 0.3, 1e-9))
	suite.False(ApproxEqual(1, 1.1, 1e-9))
}
