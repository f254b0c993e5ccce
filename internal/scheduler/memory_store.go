package scheduler

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process StateStore. It satisfies the persistence
// contract within a single run; use the Postgres-backed store for state
// that must survive restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	fired map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fired: make(map[string]time.Time)}
}

// LastFired returns the recorded last-fired time for a job.
func (m *MemoryStore) LastFired(_ context.Context, jobID string) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.fired[jobID]
	return t, ok, nil
}

// SetLastFired records the last-fired time for a job.
func (m *MemoryStore) SetLastFired(_ context.Context, jobID string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired[jobID] = t
	return nil
}
