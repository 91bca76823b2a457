package types

import (
	"fmt"
	"strings"
	"time"
)

// PositionID builds the ledger key for an exchange and instrument, e.g. "binance_btc_usdt".
func PositionID(exchange, instrument string) string {
	return fmt.Sprintf("%s_%s", strings.ToLower(exchange), strings.ToLower(instrument))
}

// Position is the open exposure in one instrument.
type Position struct {
	ID         string `yaml:"id" json:"id" csv:"id"`
	Exchange   string `yaml:"exchange" json:"exchange" csv:"exchange"`
	Instrument string `yaml:"instrument" json:"instrument" csv:"instrument"`
	// Quantity is signed: positive long, negative short. Never zero while the position exists.
	Quantity float64 `yaml:"quantity" json:"quantity" csv:"quantity"`
	// AverageEntryPrice is the quantity-weighted entry price, excluding fees
	AverageEntryPrice float64 `yaml:"average_entry_price" json:"average_entry_price" csv:"average_entry_price"`
	// EntryFees are the fees paid on the quantity still open
	EntryFees     float64    `yaml:"entry_fees" json:"entry_fees" csv:"entry_fees"`
	CurrentPrice  float64    `yaml:"current_price" json:"current_price" csv:"current_price"`
	UnrealisedPnL float64    `yaml:"unrealised_pnl" json:"unrealised_pnl" csv:"unrealised_pnl"`
	RealisedPnL   float64    `yaml:"realised_pnl" json:"realised_pnl" csv:"realised_pnl"`
	EntryMeta     MarketMeta `yaml:"entry_meta" json:"entry_meta" csv:"entry_meta"`
	UpdatedAt     time.Time  `yaml:"updated_at" json:"updated_at" csv:"updated_at"`
}

// IsLong reports whether the position is long.
func (p Position) IsLong() bool {
	return p.Quantity > 0
}

// IsShort reports whether the position is short.
func (p Position) IsShort() bool {
	return p.Quantity < 0
}

// Side returns the side that increases the position.
func (p Position) Side() Side {
	if p.IsLong() {
		return SideBuy
	}

	return SideSell
}

// ExitDecision returns the decision that closes the position.
func (p Position) ExitDecision() Decision {
	if p.IsLong() {
		return DecisionCloseLong
	}

	return DecisionCloseShort
}

// PositionUpdate describes a mark-to-market of an open position.
type PositionUpdate struct {
	PositionID    string    `yaml:"position_id" json:"position_id" csv:"position_id"`
	Timestamp     time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	CurrentPrice  float64   `yaml:"current_price" json:"current_price" csv:"current_price"`
	UnrealisedPnL float64   `yaml:"unrealised_pnl" json:"unrealised_pnl" csv:"unrealised_pnl"`
	// Change is the difference in unrealised P&L since the previous update
	Change float64 `yaml:"change" json:"change" csv:"change"`
}

// PositionExit records the portion of a position closed by a fill.
type PositionExit struct {
	PositionID string `yaml:"position_id" json:"position_id" csv:"position_id"`
	// Quantity is the signed quantity that was closed, in the position's direction
	Quantity    float64    `yaml:"quantity" json:"quantity" csv:"quantity"`
	EntryPrice  float64    `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice   float64    `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	ExitFees    float64    `yaml:"exit_fees" json:"exit_fees" csv:"exit_fees"`
	RealisedPnL float64    `yaml:"realised_pnl" json:"realised_pnl" csv:"realised_pnl"`
	ExitMeta    MarketMeta `yaml:"exit_meta" json:"exit_meta" csv:"exit_meta"`
	// Remaining is the signed quantity left open after the exit, zero when fully closed
	Remaining float64 `yaml:"remaining" json:"remaining" csv:"remaining"`
}
