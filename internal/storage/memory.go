package storage

import (
	"context"
	"sync"
)

// MemoryBackend 进程内存后端，重启即丢失
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]map[string]string
}

// NewMemoryBackend 创建内存后端
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, profile, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.records[profile][name]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, profile, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.records[profile]
	if !ok {
		p = make(map[string]string)
		m.records[profile] = p
	}
	p[name] = value
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, profile, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.records[profile]; ok {
		delete(p, name)
		if len(p) == 0 {
			delete(m.records, profile)
		}
	}
	return nil
}

func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}
