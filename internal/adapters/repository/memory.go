package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/metrics"
)

const memoryStoreName = "memory"

// MemoryStore keeps the history in process memory only.
type MemoryStore struct {
	mu     sync.Mutex
	events []model.InteractionEvent
	saves  int
}

// NewMemoryStore returns a store seeded with a copy of events.
func NewMemoryStore(events ...model.InteractionEvent) *MemoryStore {
	return &MemoryStore{events: slices.Clone(events)}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load(_ context.Context) []model.InteractionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.RecordPersistence(memoryStoreName, "load", 0)
	if s.events == nil {
		return []model.InteractionEvent{}
	}
	return slices.Clone(s.events)
}

// Save replaces the stored history with a copy of events.
func (s *MemoryStore) Save(_ context.Context, events []model.InteractionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.RecordPersistence(memoryStoreName, "save", 0)
	s.events = slices.Clone(events)
	s.saves++
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
