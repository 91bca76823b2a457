package feed

import (
	"iter"
	"slices"

	"github.com/rxtech-lab/argo-core/internal/types"
)

// HistoricalFeed replays a finite sequence of market events. Once the
// sequence is exhausted, or yields an error, every later pull returns the
// same terminal result.
type HistoricalFeed struct {
	next     func() (types.MarketEvent, error, bool)
	stop     func()
	terminal Feed[types.MarketEvent]
	done     bool
}

var _ MarketGenerator = (*HistoricalFeed)(nil)

// NewHistoricalFeed replays seq in order.
func NewHistoricalFeed(seq iter.Seq[types.MarketEvent]) *HistoricalFeed {
	return NewHistoricalFeedWithErrors(func(yield func(types.MarketEvent, error) bool) {
		for event := range seq {
			if !yield(event, nil) {
				return
			}
		}
	})
}

// NewHistoricalFeedFromSlice replays events in order. The slice is not copied.
func NewHistoricalFeedFromSlice(events []types.MarketEvent) *HistoricalFeed {
	return NewHistoricalFeed(slices.Values(events))
}

// NewHistoricalFeedWithErrors replays a sequence that may fail mid-way, such as
// rows streamed from a database. A read error ends the feed as Unhealthy.
func NewHistoricalFeedWithErrors(seq iter.Seq2[types.MarketEvent, error]) *HistoricalFeed {
	next, stop := iter.Pull2(seq)

	return &HistoricalFeed{
		next:     next,
		stop:     stop,
		terminal: Finished[types.MarketEvent](),
		done:     false,
	}
}

// Generate implements MarketGenerator.
func (h *HistoricalFeed) Generate() Feed[types.MarketEvent] {
	if h.done {
		return h.terminal
	}

	event, err, ok := h.next()
	if !ok {
		h.finish(Finished[types.MarketEvent]())

		return h.terminal
	}

	if err != nil {
		h.finish(Unhealthy[types.MarketEvent]())

		return h.terminal
	}

	return Next(event)
}

// Close releases the underlying sequence early. Later pulls return Finished.
func (h *HistoricalFeed) Close() {
	if !h.done {
		h.finish(Finished[types.MarketEvent]())
	}
}

func (h *HistoricalFeed) finish(terminal Feed[types.MarketEvent]) {
	h.done = true
	h.terminal = terminal
	h.stop()
}
