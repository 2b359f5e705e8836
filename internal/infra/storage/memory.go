package storage

import (
	"context"
	"sync"

	"github.com/bryanwahyu/medscan-relay/internal/domain/analysis"
)

// MemoryStore keeps one analysis per session key in process memory.
// Safe for concurrent use; the last successful Publish wins.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]analysis.Analysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]analysis.Analysis)}
}

func (s *MemoryStore) Publish(_ context.Context, a analysis.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[a.SessionID] = a
	return nil
}

func (s *MemoryStore) Latest(_ context.Context, sessionID string) (analysis.Analysis, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.slots[sessionID]
	return a, ok, nil
}

// Len is the number of occupied slots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
