package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fees are the costs charged on a fill, each a non-negative amount in the quote currency.
type Fees struct {
	Exchange float64 `yaml:"exchange" json:"exchange" csv:"exchange"`
	Slippage float64 `yaml:"slippage" json:"slippage" csv:"slippage"`
	Network  float64 `yaml:"network" json:"network" csv:"network"`
}

// Total returns the sum of all fee categories.
func (f Fees) Total() float64 {
	total, _ := decimal.NewFromFloat(f.Exchange).
		Add(decimal.NewFromFloat(f.Slippage)).
		Add(decimal.NewFromFloat(f.Network)).
		Float64()

	return total
}

// IsNonNegative reports whether every fee category is >= 0.
func (f Fees) IsNonNegative() bool {
	return f.Exchange >= 0 && f.Slippage >= 0 && f.Network >= 0
}

// Trade is the immutable record of an executed (fully or partially) order.
type Trade struct {
	ID            string    `yaml:"id" json:"id" csv:"id"`
	OrderID       string    `yaml:"order_id" json:"order_id" csv:"order_id"`
	ClientOrderID string    `yaml:"client_order_id" json:"client_order_id" csv:"client_order_id"`
	Exchange      string    `yaml:"exchange" json:"exchange" csv:"exchange"`
	Instrument    string    `yaml:"instrument" json:"instrument" csv:"instrument"`
	Side          Side      `yaml:"side" json:"side" csv:"side"`
	Price         float64   `yaml:"price" json:"price" csv:"price"`
	// Quantity is the unsigned filled quantity
	Quantity float64 `yaml:"quantity" json:"quantity" csv:"quantity"`
	Fees     Fees    `yaml:"fees" json:"fees" csv:"fees"`
	// FillValueGross is |quantity| * price before fees
	FillValueGross float64    `yaml:"fill_value_gross" json:"fill_value_gross" csv:"fill_value_gross"`
	Decision       Decision   `yaml:"decision" json:"decision" csv:"decision"`
	MarketMeta     MarketMeta `yaml:"market_meta" json:"market_meta" csv:"market_meta"`
	Timestamp      time.Time  `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
}

// SignedQuantity returns the filled quantity signed by side.
func (t Trade) SignedQuantity() float64 {
	return t.Side.Sign() * t.Quantity
}

// PositionID returns the id of the position the trade applies to.
func (t Trade) PositionID() string {
	return PositionID(t.Exchange, t.Instrument)
}
