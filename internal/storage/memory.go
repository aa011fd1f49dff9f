package storage

import (
	"sort"
	"sync"

	"github.com/shhac/coordinator/internal/domain"
)

// MemoryRepository implements Repository in memory. Nothing outlives the process.
type MemoryRepository struct {
	snapshots map[string]domain.Snapshot
	mu        sync.RWMutex
}

// NewMemoryRepository creates a new in-memory storage repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// SaveSnapshot stores a snapshot in memory
func (m *MemoryRepository) SaveSnapshot(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[key] = snap
	return nil
}

// LoadSnapshot retrieves a snapshot from memory
func (m *MemoryRepository) LoadSnapshot(key string) (domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[key]
	if !ok {
		return domain.Snapshot{}, notFound(key)
	}
	return snap, nil
}

// ListSnapshots returns the sorted keys of all stored snapshots
func (m *MemoryRepository) ListSnapshots() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.snapshots))
	for key := range m.snapshots {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteSnapshot removes a snapshot from memory
func (m *MemoryRepository) DeleteSnapshot(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snapshots[key]; !ok {
		return notFound(key)
	}
	delete(m.snapshots, key)
	return nil
}
