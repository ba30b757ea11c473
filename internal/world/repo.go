package world

import (
	"context"
	"sync"

	"lifequest/internal/model"
)

// Persister receives every committed snapshot. Implementations log their
// own failures; the engine never waits on or reacts to them.
type Persister interface {
	SaveState(ctx context.Context, s *model.WorldState)
	SaveHistory(ctx context.Context, entries []model.HistoryEntry)
}

// MemoryRepo keeps the last saved snapshot in memory (dev/test use).
type MemoryRepo struct {
	mu      sync.RWMutex
	state   *model.WorldState
	history []model.HistoryEntry
	saves   int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) SaveState(ctx context.Context, s *model.WorldState) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s.Clone()
	r.saves++
}

func (r *MemoryRepo) SaveHistory(ctx context.Context, entries []model.HistoryEntry) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = make([]model.HistoryEntry, len(entries))
	for i, e := range entries {
		r.history[i] = e.Clone()
	}
}

// Last returns the most recently saved snapshot, or nil.
func (r *MemoryRepo) Last() *model.WorldState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

func (r *MemoryRepo) History() []model.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.HistoryEntry, len(r.history))
	for i, e := range r.history {
		out[i] = e.Clone()
	}
	return out
}

func (r *MemoryRepo) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
