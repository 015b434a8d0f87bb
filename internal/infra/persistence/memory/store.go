// Package memory provides an in-memory checklist store used for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"matcheck/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.ChecklistStore = (*Store)(nil)

// Store keeps encoded slot payloads in process memory, so loads go through the
// same decoding path as the durable drivers.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Driver returns the storage driver identifier.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageMemory }

// Load returns the goals stored under slot.
func (s *Store) Load(_ context.Context, slot string) ([]domain.OperatorGoal, error) {
	s.mu.RLock()
	payload, ok := s.slots[slot]
	s.mu.RUnlock()
	return domain.GoalsFromPayload(slot, payload, ok)
}

// Save replaces the goals stored under slot.
func (s *Store) Save(_ context.Context, slot string, goals []domain.OperatorGoal) error {
	payload, err := domain.EncodeGoals(goals)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.slots[slot] = payload
	s.mu.Unlock()
	return nil
}

// ImportRaw stores payload under slot without validation.
func (s *Store) ImportRaw(slot string, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.mu.Lock()
	s.slots[slot] = cp
	s.mu.Unlock()
}

// ExportRaw returns a copy of the payload stored under slot.
func (s *Store) ExportRaw(slot string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[slot]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, true
}
