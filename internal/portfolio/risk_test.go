package portfolio

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/internal/utils"
	"github.com/stretchr/testify/suite"
)

type RiskTestSuite struct {
	suite.Suite
}

func TestRiskSuite(t *testing.T) {
	suite.Run(t, new(RiskTestSuite))
}

func riskOrder(decision types.Decision, price, quantity float64) types.Order {
	return types.NewOrderRequest(testExchange, testInstrument, decision, types.MarketMeta{Close: price, Timestamp: baseTime}, types.OrderKindMarket, quantity)
}

func (suite *RiskTestSuite) TestEvaluate() {
	long := types.Position{ID: types.PositionID(testExchange, testInstrument), Quantity: 8}

	tests := []struct {
		name     string
		config   RiskConfig
		order    types.Order
		state    RiskState
		expected optional.Option[float64]
	}{
		{
			name:     "passes unchanged",
			config:   RiskConfig{},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 10000}},
			expected: optional.Some(10.0),
		},
		{
			name:     "shrinks buy to free cash",
			config:   RiskConfig{},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 250}},
			expected: optional.Some(2.5),
		},
		{
			name:     "shrinks short entry to free cash",
			config:   RiskConfig{},
			order:    riskOrder(types.DecisionShort, 100, -10),
			state:    RiskState{Balance: types.Balance{Free: 250}},
			expected: optional.Some(-2.5),
		},
		{
			name:     "vetoes when no cash is free",
			config:   RiskConfig{},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 0}},
			expected: optional.None[float64](),
		},
		{
			name:     "sell exit ignores free cash",
			config:   RiskConfig{},
			order:    riskOrder(types.DecisionCloseLong, 100, -8),
			state:    RiskState{Balance: types.Balance{Free: 0}, Position: optional.Some(long)},
			expected: optional.Some(-8.0),
		},
		{
			name:     "caps order value",
			config:   RiskConfig{MaxOrderValue: 500},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 10000}},
			expected: optional.Some(5.0),
		},
		{
			name:     "caps position quantity",
			config:   RiskConfig{MaxPositionQuantity: 12},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 10000}, Position: optional.Some(long)},
			expected: optional.Some(4.0),
		},
		{
			name:     "vetoes when position is full",
			config:   RiskConfig{MaxPositionQuantity: 8},
			order:    riskOrder(types.DecisionLong, 100, 10),
			state:    RiskState{Balance: types.Balance{Free: 10000}, Position: optional.Some(long)},
			expected: optional.None[float64](),
		},
		{
			name:   "vetoes duplicate live order",
			config: RiskConfig{RejectDuplicateOrders: true},
			order:  riskOrder(types.DecisionLong, 100, 10),
			state: RiskState{
				Balance:    types.Balance{Free: 10000},
				LiveOrders: []types.Order{riskOrder(types.DecisionLong, 100, 1)},
			},
			expected: optional.None[float64](),
		},
		{
			name:   "allows opposite side live order",
			config: RiskConfig{RejectDuplicateOrders: true},
			order:  riskOrder(types.DecisionLong, 100, 10),
			state: RiskState{
				Balance:    types.Balance{Free: 10000},
				LiveOrders: []types.Order{riskOrder(types.DecisionShort, 100, -1)},
			},
			expected: optional.Some(10.0),
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			risk := NewDefaultRisk(tc.config, 4)
			result := risk.Evaluate(tc.order, tc.state)

			if tc.expected.IsNone() {
				suite.True(result.IsNone())

				return
			}

			suite.Require().True(result.IsSome())
			suite.InDelta(tc.expected.Unwrap(), result.Unwrap().Request.Quantity, delta)
			suite.Equal(tc.order.ClientOrderID, result.Unwrap().ClientOrderID)
		})
	}
}

func (suite *RiskTestSuite) TestFeeBufferIsHeldBack() {
	risk := NewDefaultRisk(RiskConfig{FeeBufferPct: 0.01}, 4)

	result := risk.Evaluate(riskOrder(types.DecisionLong, 100, 10), RiskState{Balance: types.Balance{Free: 1000}})
	suite.Require().True(result.IsSome())

	quantity := result.Unwrap().Request.Quantity
	suite.Less(quantity, 10.0)
	suite.LessOrEqual(quantity*100*1.01, 1000.0)
}

func (suite *RiskTestSuite) TestEstimatedFeesBoundFreeCash() {
	percent := utils.PercentageFeeEstimator(0.01)
	minimum := utils.FeeEstimatorFunc(func(quantity float64, _ float64) float64 {
		return math.Max(0.005*math.Abs(quantity), 1.0)
	})

	tests := []struct {
		name   string
		buffer float64
		fees   utils.FeeEstimator
		cost   func(quantity float64) float64
	}{
		{
			name:   "percentage fees above the buffer",
			buffer: 0.002,
			fees:   percent,
			cost:   func(q float64) float64 { return q*10 + percent.Estimate(q, 10) },
		},
		{
			name:   "minimum commission",
			buffer: 0,
			fees:   minimum,
			cost:   func(q float64) float64 { return q*10 + minimum.Estimate(q, 10) },
		},
		{
			name:   "buffer above estimated fees",
			buffer: 0.02,
			fees:   utils.PercentageFeeEstimator(0),
			cost:   func(q float64) float64 { return q * 10 * 1.02 },
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			risk := NewDefaultRiskWithFees(RiskConfig{FeeBufferPct: tc.buffer}, 4, tc.fees)

			result := risk.Evaluate(riskOrder(types.DecisionLong, 10, 100), RiskState{Balance: types.Balance{Free: 1000}})
			suite.Require().True(result.IsSome())

			quantity := result.Unwrap().Request.Quantity
			suite.Less(quantity, 100.0)
			suite.Greater(quantity, 95.0)
			suite.LessOrEqual(tc.cost(quantity), 1000.0+types.QuantityTolerance)
		})
	}
}
