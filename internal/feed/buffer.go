package feed

import (
	"sync"
)

// Buffer is an unbounded multi-producer single-consumer queue. Send never
// blocks: the ring doubles its capacity when it reaches 70% full.
type Buffer[T any] struct {
	mu        sync.Mutex
	buf       []T
	head      int // read position
	tail      int // write position
	count     int
	capacity  int
	closed    bool
	producers int

	// Stats
	totalReceived int64
	totalSent     int64
	resizeCount   int
}

// BufferStats contains buffer statistics.
type BufferStats struct {
	Count         int
	Capacity      int
	Producers     int
	TotalReceived int64
	TotalSent     int64
	ResizeCount   int
}

// NewBuffer creates a new buffer with the given initial capacity.
func NewBuffer[T any](initialCapacity int) *Buffer[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}

	return &Buffer[T]{
		buf:      make([]T, initialCapacity),
		capacity: initialCapacity,
	}
}

// Send appends an item. Returns false if the buffer is closed.
func (b *Buffer[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	threshold := (b.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}

	if b.count+1 >= threshold {
		b.grow()
	}

	b.buf[b.tail] = item
	b.tail = (b.tail + 1) % b.capacity
	b.count++
	b.totalReceived++

	return true
}

// TryReceive pops the oldest item without blocking.
func (b *Buffer[T]) TryReceive() (T, bool) {
	item, ok, _ := b.Poll()

	return item, ok
}

// Poll pops the oldest item without blocking. drained is true once the
// buffer is closed and every item has been handed out; both are observed
// under the same lock so no item can slip between them.
func (b *Buffer[T]) Poll() (item T, ok bool, drained bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		var zero T

		return zero, false, b.closed
	}

	item = b.buf[b.head]

	var zero T
	b.buf[b.head] = zero // clear reference for GC
	b.head = (b.head + 1) % b.capacity
	b.count--
	b.totalSent++

	return item, true, false
}

// Close closes the buffer. Pending items can still be received.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
}

// Len returns the current number of items in the buffer.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

// Cap returns the current capacity of the buffer.
func (b *Buffer[T]) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.capacity
}

// Stats returns buffer statistics.
func (b *Buffer[T]) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BufferStats{
		Count:         b.count,
		Capacity:      b.capacity,
		Producers:     b.producers,
		TotalReceived: b.totalReceived,
		TotalSent:     b.totalSent,
		ResizeCount:   b.resizeCount,
	}
}

// attach registers a producer. Returns false if the buffer is already closed.
func (b *Buffer[T]) attach() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	b.producers++

	return true
}

// detach unregisters a producer and closes the buffer when none remain.
func (b *Buffer[T]) detach() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.producers--
	if b.producers <= 0 {
		b.producers = 0
		b.closed = true
	}
}

// grow doubles the buffer capacity. Must be called with lock held.
func (b *Buffer[T]) grow() {
	newCapacity := b.capacity * 2
	newBuf := make([]T, newCapacity)

	if b.count > 0 {
		if b.head < b.tail {
			copy(newBuf, b.buf[b.head:b.tail])
		} else {
			n := copy(newBuf, b.buf[b.head:])
			copy(newBuf[n:], b.buf[:b.tail])
		}
	}

	b.buf = newBuf
	b.head = 0
	b.tail = b.count
	b.capacity = newCapacity
	b.resizeCount++
}
