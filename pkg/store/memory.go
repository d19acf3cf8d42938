package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps runs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run // insertion order
	byID map[string]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	prepare(run)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byID[run.ID]; ok {
		s.runs[i] = *run
		return nil
	}
	s.byID[run.ID] = len(s.runs)
	s.runs = append(s.runs, *run)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	run := s.runs[i]
	return &run, nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s.mu.RLock()
	runs := slices.Clone(s.runs)
	s.mu.RUnlock()

	slices.SortStableFunc(runs, func(a, b Run) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
