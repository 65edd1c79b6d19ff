package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory DatasetStore. With a positive capacity the
// oldest dataset is evicted when a new one would exceed it.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	order    []string
	capacity int
	onEvict  func(*Dataset)
}

// NewMemoryStore creates a store holding at most capacity datasets;
// zero means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*Dataset),
		capacity: capacity,
	}
}

// OnEvict registers a callback run (under the store lock) for every
// dataset dropped to make room.
func (s *MemoryStore) OnEvict(fn func(*Dataset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// Save stores ds under ds.ID.
func (s *MemoryStore) Save(ctx context.Context, ds *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDatasetExists, ds.ID)
	}

	for s.capacity > 0 && len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		evicted := s.datasets[oldest]
		delete(s.datasets, oldest)
		if s.onEvict != nil && evicted != nil {
			s.onEvict(evicted)
		}
	}

	s.datasets[ds.ID] = ds
	s.order = append(s.order, ds.ID)
	return nil
}

// Get returns the dataset stored under id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return ds, nil
}

// Delete removes the dataset stored under id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	delete(s.datasets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns datasets oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.datasets[id])
	}
	return out, nil
}

// Len reports how many datasets are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

var _ DatasetStore = (*MemoryStore)(nil)
