package strategy

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SMACrossoverTestSuite struct {
	suite.Suite
}

func TestSMACrossoverSuite(t *testing.T) {
	suite.Run(t, new(SMACrossoverTestSuite))
}

func candle(instrument string, price float64, minute int) types.MarketEvent {
	return types.MarketEvent{
		Timestamp:  time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Exchange:   "binance",
		Instrument: instrument,
		Close:      price,
	}
}

func (suite *SMACrossoverTestSuite) TestInvalidConfig() {
	tests := []struct {
		name   string
		config SMAConfig
	}{
		{name: "short not below long", config: SMAConfig{ShortPeriod: 5, LongPeriod: 5}},
		{name: "zero short", config: SMAConfig{ShortPeriod: 0, LongPeriod: 5}},
		{name: "long too small", config: SMAConfig{ShortPeriod: 1, LongPeriod: 1}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := NewSMACrossover(tc.config)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *SMACrossoverTestSuite) TestCrossovers() {
	strategy, err := NewSMACrossover(SMAConfig{ShortPeriod: 2, LongPeriod: 3})
	suite.Require().NoError(err)
	suite.Equal("SMA_Cross_2_3", strategy.Name())

	// falling, then a sharp rise crosses up, then a sharp fall crosses down
	prices := []float64{10, 9, 8, 7, 12, 13, 14, 6}
	var signals []types.Signal

	for i, price := range prices {
		if signal := strategy.GenerateSignal(candle("btc_usdt", price, i)); signal.IsSome() {
			signals = append(signals, signal.Unwrap())
		}
	}

	suite.Require().Len(signals, 2)

	up := signals[0]
	suite.Contains(up.Decisions, types.DecisionLong)
	suite.Contains(up.Decisions, types.DecisionCloseShort)
	suite.Equal(12.0, up.MarketMeta.Close)
	suite.NoError(up.Validate())

	down := signals[1]
	suite.Contains(down.Decisions, types.DecisionShort)
	suite.Contains(down.Decisions, types.DecisionCloseLong)
	suite.Equal(6.0, down.MarketMeta.Close)
	suite.LessOrEqual(float64(down.Decisions[types.DecisionShort]), 1.0)
	suite.Greater(float64(down.Decisions[types.DecisionShort]), 0.0)
}

func (suite *SMACrossoverTestSuite) TestHistoryIsPerInstrument() {
	strategy, err := NewSMACrossover(SMAConfig{ShortPeriod: 2, LongPeriod: 3})
	suite.Require().NoError(err)

	for i, price := range []float64{10, 9, 8, 7} {
		suite.True(strategy.GenerateSignal(candle("btc_usdt", price, i)).IsNone())
	}

	// a fresh instrument has no history yet
	suite.True(strategy.GenerateSignal(candle("eth_usdt", 100, 4)).IsNone())
	suite.True(strategy.GenerateSignal(candle("btc_usdt", 12, 4)).IsSome())
}

func (suite *SMACrossoverTestSuite) TestNoop() {
	suite.True(Noop.GenerateSignal(candle("btc_usdt", 1, 0)).IsNone())
}
