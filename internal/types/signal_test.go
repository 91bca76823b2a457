package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-core/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestDecisionClassification() {
	tests := []struct {
		decision Decision
		long     bool
		short    bool
		entry    bool
		exit     bool
		side     Side
	}{
		{decision: DecisionLong, long: true, entry: true, side: SideBuy},
		{decision: DecisionShort, short: true, entry: true, side: SideSell},
		{decision: DecisionCloseLong, exit: true, side: SideSell},
		{decision: DecisionCloseShort, exit: true, side: SideBuy},
	}

	for _, tc := range tests {
		suite.Run(string(tc.decision), func() {
			suite.Equal(tc.long, tc.decision.IsLong())
			suite.Equal(tc.short, tc.decision.IsShort())
			suite.Equal(tc.entry, tc.decision.IsEntry())
			suite.Equal(tc.exit, tc.decision.IsExit())
			suite.NotEqual(tc.decision.IsEntry(), tc.decision.IsExit())
			suite.Equal(tc.side, tc.decision.Side())
		})
	}
}

func (suite *SignalTestSuite) TestValidate() {
	meta := MarketMeta{Close: 10, Timestamp: time.Now()}

	tests := []struct {
		name        string
		decisions   map[Decision]SignalStrength
		shouldError bool
	}{
		{name: "single decision", decisions: map[Decision]SignalStrength{DecisionLong: 1}},
		{name: "nil decisions", decisions: nil, shouldError: true},
		{name: "empty decisions", decisions: map[Decision]SignalStrength{}, shouldError: true},
		{name: "unknown decision", decisions: map[Decision]SignalStrength{"hold": 1}, shouldError: true},
		{name: "zero strength", decisions: map[Decision]SignalStrength{DecisionShort: 0}, shouldError: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			signal := Signal{
				Timestamp:  meta.Timestamp,
				Exchange:   "binance",
				Instrument: "eth_usdt",
				Decisions:  tc.decisions,
				MarketMeta: meta,
			}

			err := signal.Validate()
			if tc.shouldError {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidSignal))
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *SignalTestSuite) TestPositionIDs() {
	exit := NewSignalForceExit("Binance", "BTC_USDT", time.Now())
	suite.Equal("binance_btc_usdt", exit.PositionID())

	signal := Signal{Exchange: "binance", Instrument: "btc_usdt"}
	suite.Equal(exit.PositionID(), signal.PositionID())
}
