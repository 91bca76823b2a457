// Package strategy holds the signal generators the trading loop consults on every market event.
package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
)

// SignalGenerator scores a market event into at most one signal.
// Generators keep their own history; the trading loop calls them from one goroutine.
type SignalGenerator interface {
	GenerateSignal(event types.MarketEvent) optional.Option[types.Signal]
	// Name returns the name of the strategy
	Name() string
}

// SignalGeneratorFunc adapts a function to SignalGenerator.
type SignalGeneratorFunc func(event types.MarketEvent) optional.Option[types.Signal]

// GenerateSignal calls f(event).
func (f SignalGeneratorFunc) GenerateSignal(event types.MarketEvent) optional.Option[types.Signal] {
	return f(event)
}

// Name implements SignalGenerator.
func (f SignalGeneratorFunc) Name() string {
	return "func"
}

// Noop never signals. Useful for running the loop as a pure mark-to-market.
var Noop SignalGenerator = SignalGeneratorFunc(func(types.MarketEvent) optional.Option[types.Signal] {
	return optional.None[types.Signal]()
})
