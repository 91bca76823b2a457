package feed

import (
	"sync"
	"sync/atomic"

	"github.com/rxtech-lab/argo-core/internal/types"
)

// Producer is one sending half of a live feed. The feed disconnects once
// every producer has been closed.
type Producer[T any] struct {
	buf    *Buffer[T]
	once   sync.Once
	closed atomic.Bool
}

// Send enqueues an item. It never blocks. Returns false once the producer or
// the feed has been closed.
func (p *Producer[T]) Send(item T) bool {
	if p.closed.Load() {
		return false
	}

	return p.buf.Send(item)
}

// Clone returns another producer for the same feed. Returns nil if the feed
// is already disconnected.
func (p *Producer[T]) Clone() *Producer[T] {
	if !p.buf.attach() {
		return nil
	}

	return &Producer[T]{buf: p.buf}
}

// Close detaches the producer. Safe to call more than once.
func (p *Producer[T]) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		p.buf.detach()
	})
}

// LiveFeed drains an unbounded queue fed by concurrent producers. Generate
// busy-polls until an event arrives or every producer has gone away.
type LiveFeed struct {
	buf       *Buffer[types.MarketEvent]
	unhealthy bool
}

var _ MarketGenerator = (*LiveFeed)(nil)

// NewLiveFeed creates a live feed and its first producer.
func NewLiveFeed(initialCapacity int) (*LiveFeed, *Producer[types.MarketEvent]) {
	buf := NewBuffer[types.MarketEvent](initialCapacity)
	buf.attach()

	return &LiveFeed{buf: buf}, &Producer[types.MarketEvent]{buf: buf}
}

// Generate implements MarketGenerator.
func (l *LiveFeed) Generate() Feed[types.MarketEvent] {
	if l.unhealthy {
		return Unhealthy[types.MarketEvent]()
	}

	for {
		event, ok, drained := l.buf.Poll()
		if ok {
			return Next(event)
		}

		if drained {
			l.unhealthy = true

			return Unhealthy[types.MarketEvent]()
		}
	}
}

// Stats returns the queue statistics.
func (l *LiveFeed) Stats() BufferStats {
	return l.buf.Stats()
}
