package types

import (
	"time"
)

// Balance is the cash held in one asset. Total == Free + Used after every mutation.
type Balance struct {
	Asset string  `yaml:"asset" json:"asset" csv:"asset"`
	Total float64 `yaml:"total" json:"total" csv:"total"`
	Free  float64 `yaml:"free" json:"free" csv:"free"`
	// Used is the cash reserved for live buy-side orders
	Used float64 `yaml:"used" json:"used" csv:"used"`
}

// AccountEventKind identifies what changed in the ledger.
type AccountEventKind string

const (
	AccountEventPositionOpened  AccountEventKind = "position_opened"
	AccountEventPositionUpdated AccountEventKind = "position_updated"
	AccountEventPositionExited  AccountEventKind = "position_exited"
	AccountEventBalanceUpdated  AccountEventKind = "balance_updated"
	AccountEventOrderUpdated    AccountEventKind = "order_updated"
)

// AccountEvent is emitted for every ledger mutation. Exactly one payload is set,
// matching Kind.
type AccountEvent struct {
	Kind      AccountEventKind `yaml:"kind" json:"kind"`
	Timestamp time.Time        `yaml:"timestamp" json:"timestamp"`
	// Position is set for opened and updated events
	Position *Position `yaml:"position,omitempty" json:"position,omitempty"`
	// Exit is set for exited events
	Exit    *PositionExit `yaml:"exit,omitempty" json:"exit,omitempty"`
	Balance *Balance      `yaml:"balance,omitempty" json:"balance,omitempty"`
	Order   *Order        `yaml:"order,omitempty" json:"order,omitempty"`
}

// Snapshot is a point-in-time copy of the ledger.
type Snapshot struct {
	Timestamp time.Time  `yaml:"timestamp" json:"timestamp"`
	Balance   Balance    `yaml:"balance" json:"balance"`
	Positions []Position `yaml:"positions" json:"positions"`
	// Orders holds every order that is not yet terminal
	Orders        []Order `yaml:"orders" json:"orders"`
	Equity        float64 `yaml:"equity" json:"equity"`
	RealisedPnL   float64 `yaml:"realised_pnl" json:"realised_pnl"`
	UnrealisedPnL float64 `yaml:"unrealised_pnl" json:"unrealised_pnl"`
	TotalFees     float64 `yaml:"total_fees" json:"total_fees"`
}
