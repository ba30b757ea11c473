// Package store persists the world document and its history through a
// small key-value contract.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"lifequest/internal/config"
)

// Backend is the key-value medium the store writes documents to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryBackend keeps values in memory (dev/test use).
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// Open builds the backend selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryBackend(), nil
	case "", "file":
		return NewFileBackend(cfg.DataDir, cfg.Compress)
	case "sqlite":
		return OpenSQLite(filepath.Join(cfg.DataDir, "lifequest.db"))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
