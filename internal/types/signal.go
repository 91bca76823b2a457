package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// Decision is the directional intent carried by a Signal.
type Decision string

const (
	// DecisionLong opens or increases a long position
	DecisionLong Decision = "long"
	// DecisionCloseLong closes an open long position
	DecisionCloseLong Decision = "close_long"
	// DecisionShort opens or increases a short position
	DecisionShort Decision = "short"
	// DecisionCloseShort closes an open short position
	DecisionCloseShort Decision = "close_short"
)

// IsLong reports whether the decision is Long.
func (d Decision) IsLong() bool {
	return d == DecisionLong
}

// IsShort reports whether the decision is Short.
func (d Decision) IsShort() bool {
	return d == DecisionShort
}

// IsEntry reports whether the decision opens exposure (Long or Short).
func (d Decision) IsEntry() bool {
	return d == DecisionLong || d == DecisionShort
}

// IsExit reports whether the decision closes exposure (CloseLong or CloseShort).
func (d Decision) IsExit() bool {
	return d == DecisionCloseLong || d == DecisionCloseShort
}

// Side returns the order side a decision maps to.
// Long and CloseShort buy, Short and CloseLong sell.
func (d Decision) Side() Side {
	switch d {
	case DecisionLong, DecisionCloseShort:
		return SideBuy
	default:
		return SideSell
	}
}

// SignalStrength is the strategy's confidence in a decision, in (0, 1].
type SignalStrength float64

// Signal is an advisory output of a strategy. It has not been sized or risk checked.
type Signal struct {
	Timestamp  time.Time                   `yaml:"timestamp" json:"timestamp" validate:"required"`
	Exchange   string                      `yaml:"exchange" json:"exchange" validate:"required"`
	Instrument string                      `yaml:"instrument" json:"instrument" validate:"required"`
	Decisions  map[Decision]SignalStrength `yaml:"decisions" json:"decisions" validate:"required,min=1,dive,keys,oneof=long close_long short close_short,endkeys,gt=0"`
	MarketMeta MarketMeta                  `yaml:"market_meta" json:"market_meta"`
}

// PositionID returns the id of the position the signal refers to.
func (s Signal) PositionID() string {
	return PositionID(s.Exchange, s.Instrument)
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}

// SignalForceExit is an externally triggered instruction to close the position
// for one exchange and instrument pair.
type SignalForceExit struct {
	Timestamp  time.Time `yaml:"timestamp" json:"timestamp"`
	Exchange   string    `yaml:"exchange" json:"exchange"`
	Instrument string    `yaml:"instrument" json:"instrument"`
}

// NewSignalForceExit creates a SignalForceExit stamped with the given time.
func NewSignalForceExit(exchange, instrument string, ts time.Time) SignalForceExit {
	return SignalForceExit{
		Timestamp:  ts,
		Exchange:   exchange,
		Instrument: instrument,
	}
}

// PositionID returns the id of the position the exit targets.
func (s SignalForceExit) PositionID() string {
	return PositionID(s.Exchange, s.Instrument)
}
