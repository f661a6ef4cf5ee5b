package storage

import (
	"context"
	"sync"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	tables      map[string]map[model.StateAction]float64
	games       map[string][]model.GameRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.tables = make(map[string]map[model.StateAction]float64)
	s.games = make(map[string][]model.GameRecord)
	return nil
}

func (s *MemoryStore) SaveValueTable(_ context.Context, id string, values map[model.StateAction]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[model.StateAction]float64, len(values))
	for pair, v := range values {
		copied[pair] = v
	}
	s.tables[id] = copied
	return nil
}

func (s *MemoryStore) GetValueTable(_ context.Context, id string) (map[model.StateAction]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.tables[id]
	if !ok {
		return nil, false, nil
	}
	copied := make(map[model.StateAction]float64, len(values))
	for pair, v := range values {
		copied[pair] = v
	}
	return copied, true, nil
}

func (s *MemoryStore) SaveGameRecord(_ context.Context, record model.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[record.RunID] = append(s.games[record.RunID], record)
	return nil
}

func (s *MemoryStore) GetGameRecords(_ context.Context, runID string) ([]model.GameRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.games[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GameRecord, len(records))
	copy(copied, records)
	return copied, true, nil
}
