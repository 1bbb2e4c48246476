package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process KV. Values are stored encoded so callers never
// share memory with the store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	data    []byte
	updated time.Time
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.RLock()
	entry, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}
	m.mu.Lock()
	m.values[key] = memoryEntry{data: data, updated: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	m.mu.RLock()
	entry, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return time.Time{}, fmt.Errorf("kv updated_at %q: %w", key, ErrNotFound)
	}
	return entry.updated, nil
}
