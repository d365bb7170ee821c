// Package store provides the key-value persistence port shared by the task
// ledger and the streak ledger, plus its SQLite, Redis and in-memory backends.
// Ledgers depend on KV only, so backends can be swapped without touching any
// other layer.
package store

import (
	"errors"
	"sync"
)

// Fixed keys for the two persisted ledgers.
const (
	KeyTasks  = "todo-timer-app-todos"
	KeyStreak = "streakData"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// KV is the storage contract: get and set a named blob.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, blob []byte) error
	Close() error
}

// Memory is an in-process KV. Its zero value is ready to use.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	// SetErr, when non-nil, is returned by every Set without storing.
	SetErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Set(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), blob...)
	return nil
}

func (m *Memory) Close() error { return nil }
