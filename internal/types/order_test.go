package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type OrderTestSuite struct {
	suite.Suite
	meta MarketMeta
}

func TestOrderSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}

func (suite *OrderTestSuite) SetupTest() {
	suite.meta = MarketMeta{Close: 100, Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (suite *OrderTestSuite) newOrder(quantity float64) Order {
	return NewOrderRequest("binance", "btc_usdt", DecisionLong, suite.meta, OrderKindMarket, quantity)
}

func (suite *OrderTestSuite) openOrder(quantity float64) Order {
	order, err := suite.newOrder(quantity).Submit()
	suite.Require().NoError(err)

	order, err = order.Acknowledge("venue-1", OpenState{Side: order.Request.Side, Price: 100, Quantity: order.Quantity()})
	suite.Require().NoError(err)

	return order
}

func (suite *OrderTestSuite) TestNewOrderRequest() {
	buy := suite.newOrder(2)
	suite.NotEmpty(buy.ClientOrderID)
	suite.Equal(OrderStateRequest, buy.State)
	suite.Equal(SideBuy, buy.Request.Side)
	suite.Equal(100.0, buy.Request.Price)
	suite.Equal(2.0, buy.Quantity())
	suite.True(buy.Open.IsNone())
	suite.Equal("binance_btc_usdt", buy.PositionID())

	sell := suite.newOrder(-3)
	suite.Equal(SideSell, sell.Request.Side)
	suite.Equal(3.0, sell.Quantity())
	suite.NotEqual(buy.ClientOrderID, sell.ClientOrderID)
}

func (suite *OrderTestSuite) TestHappyPathLifecycle() {
	order := suite.newOrder(10)

	inFlight, err := order.Submit()
	suite.NoError(err)
	suite.Equal(OrderStateInFlight, inFlight.State)
	// transitions never mutate the receiver
	suite.Equal(OrderStateRequest, order.State)

	open, err := inFlight.Acknowledge("venue-1", OpenState{Side: SideBuy, Price: 100, Quantity: 10})
	suite.NoError(err)
	suite.Equal(OrderStateOpen, open.State)
	suite.Equal("venue-1", open.OrderID)

	partial, err := open.Fill(4)
	suite.NoError(err)
	suite.Equal(OrderStatePartiallyFilled, partial.State)
	suite.InDelta(6.0, partial.RemainingQuantity(), 1e-12)

	filled, err := partial.Fill(6)
	suite.NoError(err)
	suite.Equal(OrderStateFilled, filled.State)
	suite.True(filled.IsTerminal())
	suite.Equal(0.0, filled.RemainingQuantity())
}

func (suite *OrderTestSuite) TestInvalidTransitions() {
	tests := []struct {
		name string
		run  func() error
		code errors.ErrorCode
	}{
		{
			name: "acknowledge a request",
			run: func() error {
				_, err := suite.newOrder(1).Acknowledge("x", OpenState{Side: SideBuy, Price: 1, Quantity: 1})

				return err
			},
			code: errors.ErrCodeInvalidOrderTransition,
		},
		{
			name: "fill a request",
			run: func() error {
				_, err := suite.newOrder(1).Fill(1)

				return err
			},
			code: errors.ErrCodeInvalidOrderTransition,
		},
		{
			name: "cancel an in flight order",
			run: func() error {
				order, _ := suite.newOrder(1).Submit()
				_, err := order.Cancel()

				return err
			},
			code: errors.ErrCodeInvalidOrderTransition,
		},
		{
			name: "submit twice",
			run: func() error {
				order, _ := suite.newOrder(1).Submit()
				_, err := order.Submit()

				return err
			},
			code: errors.ErrCodeInvalidOrderTransition,
		},
		{
			name: "fill a filled order",
			run: func() error {
				order, _ := suite.openOrder(1).Fill(1)
				_, err := order.Fill(0.5)

				return err
			},
			code: errors.ErrCodeOrderTerminal,
		},
		{
			name: "cancel a filled order",
			run: func() error {
				order, _ := suite.openOrder(1).Fill(1)
				_, err := order.Cancel()

				return err
			},
			code: errors.ErrCodeOrderTerminal,
		},
		{
			name: "fill a cancelled order",
			run: func() error {
				order, _ := suite.openOrder(1).Cancel()
				_, err := order.Fill(1)

				return err
			},
			code: errors.ErrCodeOrderTerminal,
		},
		{
			name: "overfill",
			run: func() error {
				_, err := suite.openOrder(1).Fill(1.5)

				return err
			},
			code: errors.ErrCodeOverfill,
		},
		{
			name: "acknowledge with the wrong side",
			run: func() error {
				order, _ := suite.newOrder(1).Submit()
				_, err := order.Acknowledge("x", OpenState{Side: SideSell, Price: 1, Quantity: 1})

				return err
			},
			code: errors.ErrCodeInvalidOrder,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := tc.run()
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (suite *OrderTestSuite) TestCancelPartiallyFilled() {
	order, err := suite.openOrder(5).Fill(2)
	suite.Require().NoError(err)

	cancelled, err := order.Cancel()
	suite.NoError(err)
	suite.Equal(OrderStateCancelled, cancelled.State)
	suite.Equal(2.0, cancelled.FilledQuantity)
}

func (suite *OrderTestSuite) TestFillWithinTolerance() {
	order, err := suite.openOrder(0.3).Fill(0.1)
	suite.Require().NoError(err)

	order, err = order.Fill(0.2)
	suite.NoError(err)
	suite.Equal(OrderStateFilled, order.State)
}

func (suite *OrderTestSuite) TestValidate() {
	tests := []struct {
		name        string
		mutate      func(o *Order)
		shouldError bool
	}{
		{name: "valid", mutate: func(o *Order) {}},
		{name: "zero quantity", mutate: func(o *Order) { o.Request.Quantity = 0 }, shouldError: true},
		{name: "side mismatch", mutate: func(o *Order) { o.Request.Side = SideSell }, shouldError: true},
		{name: "missing instrument", mutate: func(o *Order) { o.Instrument = "" }, shouldError: true},
		{name: "bad kind", mutate: func(o *Order) { o.Request.Kind = "STOP" }, shouldError: true},
		{name: "zero close", mutate: func(o *Order) { o.MarketMeta.Close = 0 }, shouldError: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			order := suite.newOrder(1)
			tc.mutate(&order)

			err := order.Validate()
			if tc.shouldError {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
			} else {
				suite.NoError(err)
			}
		})
	}
}
