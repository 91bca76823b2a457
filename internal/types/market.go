package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-core/pkg/errors"
)

// MarketMeta is the slice of a market observation that travels with every
// downstream signal, order and trade produced from it.
type MarketMeta struct {
	// Close is the observed close price
	Close float64 `yaml:"close" json:"close" csv:"close" validate:"gt=0"`
	// Timestamp is the time of the observation
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
}

// MarketEvent is a single candle observation for one instrument on one exchange.
type MarketEvent struct {
	ID         string    `yaml:"id" json:"id" csv:"id"`
	Timestamp  time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	Exchange   string    `yaml:"exchange" json:"exchange" csv:"exchange" validate:"required"`
	Instrument string    `yaml:"instrument" json:"instrument" csv:"instrument" validate:"required"`
	Open       float64   `yaml:"open" json:"open" csv:"open" validate:"gte=0"`
	High       float64   `yaml:"high" json:"high" csv:"high" validate:"gte=0"`
	Low        float64   `yaml:"low" json:"low" csv:"low" validate:"gte=0"`
	Close      float64   `yaml:"close" json:"close" csv:"close" validate:"gt=0"`
	Volume     float64   `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

// Meta returns the MarketMeta captured from this event.
func (e MarketEvent) Meta() MarketMeta {
	return MarketMeta{
		Close:     e.Close,
		Timestamp: e.Timestamp,
	}
}

// PositionID returns the id of the position this event prices.
func (e MarketEvent) PositionID() string {
	return PositionID(e.Exchange, e.Instrument)
}

// Validate validates the MarketEvent struct.
func (e *MarketEvent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMarketEvent, "invalid market event", err)
	}

	return nil
}
