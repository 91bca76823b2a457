// Package feed provides the market data heartbeat of the trading loop.
//
// Every call to a MarketGenerator returns one of three outcomes:
//   - Next: a market event is available
//   - Finished: a historical sequence is exhausted (terminal)
//   - Unhealthy: a live stream has disconnected (terminal)
//
// Historical feeds replay a finite sequence. Live feeds drain an unbounded
// queue filled by one or more concurrent producers.
package feed

import (
	"github.com/rxtech-lab/argo-core/internal/types"
)

// Status is the outcome of a single feed pull.
type Status int

const (
	StatusNext Status = iota
	StatusFinished
	StatusUnhealthy
)

// String returns the lower case name of the status.
func (s Status) String() string {
	switch s {
	case StatusNext:
		return "next"
	case StatusFinished:
		return "finished"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Feed is the result of one pull. Event is only meaningful when Status is StatusNext.
type Feed[T any] struct {
	Status Status
	Event  T
}

// Next wraps an available event.
func Next[T any](event T) Feed[T] {
	return Feed[T]{Status: StatusNext, Event: event}
}

// Finished reports an exhausted sequence.
func Finished[T any]() Feed[T] {
	var zero T

	return Feed[T]{Status: StatusFinished, Event: zero}
}

// Unhealthy reports a disconnected stream.
func Unhealthy[T any]() Feed[T] {
	var zero T

	return Feed[T]{Status: StatusUnhealthy, Event: zero}
}

// IsTerminal reports whether the feed will never produce another event.
func (f Feed[T]) IsTerminal() bool {
	return f.Status != StatusNext
}

// MarketGenerator is pulled once per loop iteration by a single consumer.
type MarketGenerator interface {
	Generate() Feed[types.MarketEvent]
}
