package storage

import (
	"context"
	"sync"

	"rupeetrack/internal/core"
	"rupeetrack/internal/store"
)

// MemoryRepository holds the last saved state in memory. Nothing survives a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	state *core.State
	saves int
}

var _ store.Persister = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(_ context.Context) (core.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return core.State{}, store.ErrNoState
	}
	return r.state.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, s core.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := s.Clone()
	r.state = &c
	r.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (r *MemoryRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
