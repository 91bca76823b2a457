package strategy

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// minStrength keeps a barely-crossed signal strictly positive.
const minStrength = 0.01

// SMAConfig configures an SMACrossover.
type SMAConfig struct {
	ShortPeriod int `yaml:"short_period" json:"short_period" jsonschema:"title=Short period,minimum=1,default=5" validate:"gt=0,ltfield=LongPeriod"`
	LongPeriod  int `yaml:"long_period" json:"long_period" jsonschema:"title=Long period,minimum=2,default=20" validate:"gt=1"`
}

// DefaultSMAConfig returns a 5/20 crossover.
func DefaultSMAConfig() SMAConfig {
	return SMAConfig{ShortPeriod: 5, LongPeriod: 20}
}

// Validate validates the SMAConfig struct.
func (c SMAConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid sma config", err)
	}

	return nil
}

// SMACrossover goes long when the short moving average crosses above the long
// one and short when it crosses below. Each cross also asks to close the
// opposite position; the portfolio only acts on the decision that fits.
type SMACrossover struct {
	config SMAConfig
	// closes keeps the last LongPeriod+1 closes per position id
	closes map[string][]float64
}

var _ SignalGenerator = (*SMACrossover)(nil)

// NewSMACrossover creates a crossover strategy.
func NewSMACrossover(config SMAConfig) (*SMACrossover, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SMACrossover{
		config: config,
		closes: make(map[string][]float64),
	}, nil
}

// Name returns the name of the strategy.
func (s *SMACrossover) Name() string {
	return fmt.Sprintf("SMA_Cross_%d_%d", s.config.ShortPeriod, s.config.LongPeriod)
}

// GenerateSignal implements SignalGenerator.
func (s *SMACrossover) GenerateSignal(event types.MarketEvent) optional.Option[types.Signal] {
	id := event.PositionID()

	closes := append(s.closes[id], event.Close)
	if len(closes) > s.config.LongPeriod+1 {
		closes = closes[len(closes)-s.config.LongPeriod-1:]
	}

	s.closes[id] = closes

	// need the current and the previous long average
	if len(closes) <= s.config.LongPeriod {
		return optional.None[types.Signal]()
	}

	previous := closes[:len(closes)-1]
	shortMA, longMA := sma(closes, s.config.ShortPeriod), sma(closes, s.config.LongPeriod)
	prevShortMA, prevLongMA := sma(previous, s.config.ShortPeriod), sma(previous, s.config.LongPeriod)

	var decisions map[types.Decision]types.SignalStrength

	strength := types.SignalStrength(math.Max(math.Min(math.Abs(shortMA-longMA)/longMA*100, 1), minStrength))

	switch {
	case shortMA > longMA && prevShortMA <= prevLongMA:
		decisions = map[types.Decision]types.SignalStrength{
			types.DecisionLong:       strength,
			types.DecisionCloseShort: strength,
		}
	case shortMA < longMA && prevShortMA >= prevLongMA:
		decisions = map[types.Decision]types.SignalStrength{
			types.DecisionShort:     strength,
			types.DecisionCloseLong: strength,
		}
	default:
		return optional.None[types.Signal]()
	}

	return optional.Some(types.Signal{
		Timestamp:  event.Timestamp,
		Exchange:   event.Exchange,
		Instrument: event.Instrument,
		Decisions:  decisions,
		MarketMeta: event.Meta(),
	})
}

// sma averages the last period closes.
func sma(closes []float64, period int) float64 {
	if len(closes) < period {
		return 0
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}

	return sum / float64(period)
}
