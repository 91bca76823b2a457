// Package repository keeps the account events a portfolio emits.
package repository

import (
	"sync"

	"github.com/rxtech-lab/argo-core/internal/types"
)

// Journal records batches of account events in the order they were emitted.
type Journal interface {
	Record(events []types.AccountEvent) error
	Events() ([]types.AccountEvent, error)
}

var (
	_ Journal = (*MemoryJournal)(nil)
	_ Journal = (*DuckDBJournal)(nil)
)

// MemoryJournal keeps events in memory. It is safe for concurrent use.
type MemoryJournal struct {
	mu     sync.RWMutex
	events []types.AccountEvent
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record implements Journal.
func (j *MemoryJournal) Record(events []types.AccountEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, events...)

	return nil
}

// Events implements Journal. The returned slice is a copy.
func (j *MemoryJournal) Events() ([]types.AccountEvent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	events := make([]types.AccountEvent, len(j.events))
	copy(events, j.events)

	return events, nil
}

// Len returns the number of recorded events.
func (j *MemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.events)
}

// positionID returns the position an event refers to, empty for balance events.
func positionID(event types.AccountEvent) string {
	switch {
	case event.Position != nil:
		return event.Position.ID
	case event.Exit != nil:
		return event.Exit.PositionID
	case event.Order != nil:
		return event.Order.PositionID()
	default:
		return ""
	}
}
