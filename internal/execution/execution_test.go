package execution

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-core/internal/logger"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SimulatedExecutionTestSuite struct {
	suite.Suite
	meta types.MarketMeta
}

func TestSimulatedExecutionSuite(t *testing.T) {
	suite.Run(t, new(SimulatedExecutionTestSuite))
}

func (suite *SimulatedExecutionTestSuite) SetupTest() {
	suite.meta = types.MarketMeta{Close: 10.0, Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
}

func (suite *SimulatedExecutionTestSuite) newClient(pct FeesPct) *SimulatedExecution {
	client, err := NewSimulatedExecution(Config{SimulatedFeesPct: pct}, logger.NewNopLogger())
	suite.Require().NoError(err)

	return client
}

func (suite *SimulatedExecutionTestSuite) TestGenerateFill() {
	pct := FeesPct{Exchange: 0.1, Slippage: 0.05, Network: 0.0}

	tests := []struct {
		name          string
		quantity      float64
		expectedSide  types.Side
		expectedGross float64
		expectedFees  types.Fees
	}{
		{
			name:          "positive quantity",
			quantity:      10.0,
			expectedSide:  types.SideBuy,
			expectedGross: 100.0,
			expectedFees:  types.Fees{Exchange: 10.0, Slippage: 5.0, Network: 0.0},
		},
		{
			name:          "negative quantity uses absolute value",
			quantity:      -100.0,
			expectedSide:  types.SideSell,
			expectedGross: 1000.0,
			expectedFees:  types.Fees{Exchange: 100.0, Slippage: 50.0, Network: 0.0},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			client := suite.newClient(pct)
			order := types.NewOrderRequest("binance", "btc_usdt", types.DecisionLong, suite.meta, types.OrderKindMarket, tc.quantity)

			trade, err := client.GenerateFill(context.Background(), order)
			suite.NoError(err)
			suite.Equal(tc.expectedGross, trade.FillValueGross)
			suite.Equal(tc.expectedFees, trade.Fees)
			suite.Equal(tc.expectedSide, trade.Side)
			suite.Equal(10.0, trade.Price)
			suite.Equal(order.ClientOrderID, trade.ClientOrderID)
			suite.Equal(suite.meta.Timestamp, trade.Timestamp)
			suite.Equal(suite.meta, trade.MarketMeta)
			suite.Greater(trade.Quantity, 0.0)
			suite.True(trade.Fees.IsNonNegative())
		})
	}
}

func (suite *SimulatedExecutionTestSuite) TestDeterministicIDs() {
	client := suite.newClient(FeesPct{})
	order := types.NewOrderRequest("binance", "btc_usdt", types.DecisionLong, suite.meta, types.OrderKindMarket, 1)

	first, err := client.GenerateFill(context.Background(), order)
	suite.NoError(err)

	inFlight, err := order.Submit()
	suite.Require().NoError(err)

	second, err := client.GenerateFill(context.Background(), inFlight)
	suite.NoError(err)

	suite.Equal(first, second)
	suite.Equal(TradeID(order.ClientOrderID), first.ID)
	suite.Equal(VenueOrderID(order.ClientOrderID), first.OrderID)
	suite.NotEqual(first.ID, first.OrderID)
}

func (suite *SimulatedExecutionTestSuite) TestRejectsInvalidOrders() {
	client := suite.newClient(FeesPct{})

	open := types.NewOrderRequest("binance", "btc_usdt", types.DecisionLong, suite.meta, types.OrderKindMarket, 1)
	open, _ = open.Submit()
	open, _ = open.Acknowledge("venue", types.OpenState{Side: types.SideBuy, Price: 10, Quantity: 1})

	noPrice := types.NewOrderRequest("binance", "btc_usdt", types.DecisionLong, types.MarketMeta{}, types.OrderKindMarket, 1)
	zero := types.NewOrderRequest("binance", "btc_usdt", types.DecisionLong, suite.meta, types.OrderKindMarket, 0)

	for name, order := range map[string]types.Order{"open": open, "no price": noPrice, "zero quantity": zero} {
		suite.Run(name, func() {
			_, err := client.GenerateFill(context.Background(), order)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidExecutionOrder))
		})
	}
}

func (suite *SimulatedExecutionTestSuite) TestInvalidConfig() {
	_, err := NewSimulatedExecution(Config{SimulatedFeesPct: FeesPct{Exchange: -0.1}}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewSimulatedExecution(Config{FeeModel: "flat"}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *SimulatedExecutionTestSuite) TestFeeModels() {
	gross := decimal.NewFromInt(1000)

	tests := []struct {
		name     string
		config   Config
		quantity float64
		expected types.Fees
	}{
		{
			name:     "default is percentage",
			config:   Config{SimulatedFeesPct: FeesPct{Exchange: 0.001, Slippage: 0.0005}},
			quantity: 10,
			expected: types.Fees{Exchange: 1.0, Slippage: 0.5},
		},
		{
			name:     "zero",
			config:   Config{FeeModel: FeeModelZero, SimulatedFeesPct: FeesPct{Exchange: 0.5}},
			quantity: 10,
			expected: types.Fees{},
		},
		{
			name:     "interactive broker minimum",
			config:   Config{FeeModel: FeeModelInteractiveBroker},
			quantity: 10,
			expected: types.Fees{Exchange: 1.0},
		},
		{
			name:     "interactive broker per unit",
			config:   Config{FeeModel: FeeModelInteractiveBroker},
			quantity: 1000,
			expected: types.Fees{Exchange: 5.0},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetFeeModel(tc.config).Calculate(tc.quantity, gross))
		})
	}
}

func (suite *SimulatedExecutionTestSuite) TestCustomFeeModel() {
	client := NewSimulatedExecutionWithFeeModel(NewZeroFees(), logger.NewNopLogger())
	order := types.NewOrderRequest("binance", "btc_usdt", types.DecisionShort, suite.meta, types.OrderKindMarket, -3)

	trade, err := client.GenerateFill(context.Background(), order)
	suite.NoError(err)
	suite.Equal(types.Fees{}, trade.Fees)
	suite.Equal(30.0, trade.FillValueGross)
	suite.Equal(types.DecisionShort, trade.Decision)
}

func (suite *SimulatedExecutionTestSuite) TestFeeEstimatorMatchesFills() {
	tests := []struct {
		name     string
		config   Config
		expected float64
	}{
		{
			name:     "percentage",
			config:   Config{SimulatedFeesPct: FeesPct{Exchange: 0.01, Slippage: 0.005}},
			expected: 15,
		},
		{
			name:     "interactive broker minimum",
			config:   Config{FeeModel: FeeModelInteractiveBroker},
			expected: 1,
		},
		{
			name:     "zero",
			config:   Config{FeeModel: FeeModelZero},
			expected: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			estimator := NewFeeEstimator(GetFeeModel(tc.config))

			// sign of quantity does not matter
			suite.InDelta(tc.expected, estimator.Estimate(-100, 10), 1e-9)
			suite.InDelta(tc.expected, estimator.Estimate(100, 10), 1e-9)
		})
	}
}
